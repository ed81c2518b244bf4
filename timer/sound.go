package timer

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/ayoisaiah/studyfocus/internal/config"
	"github.com/ayoisaiah/studyfocus/internal/models"
)

const (
	speakerRate = beep.SampleRate(44100)
	bellHz      = 880
	bellLength  = 600 * time.Millisecond
)

// Notifier is the Cue that shows a desktop notification and plays either
// the configured sound file or a short synthesised bell.
type Notifier struct {
	cfg     *config.Config
	log     *slog.Logger
	notify  func(title, message, icon string) error
	initErr error
	once    sync.Once
}

// NewNotifier returns a Notifier for cfg.
func NewNotifier(cfg *config.Config, logger *slog.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		log:    logger,
		notify: beeep.Notify,
	}
}

// Completed announces that finished is over and next is up.
func (n *Notifier) Completed(finished, next models.Phase) {
	if n.cfg.Notifications.Enabled {
		title, msg := completionMessage(finished, next)

		err := n.notify(title, msg, "")
		if err != nil {
			n.log.Warn("desktop notification failed", slog.Any("error", err))
		}
	}

	if n.cfg.Sound.Muted || n.cfg.Sound.Volume <= 0 {
		return
	}

	err := n.play()
	if err != nil {
		n.log.Warn("completion sound failed", slog.Any("error", err))
	}
}

func (n *Notifier) play() error {
	n.once.Do(func() {
		n.initErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})

	if n.initErr != nil {
		return n.initErr
	}

	stream, closer, err := n.stream()
	if err != nil {
		return err
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(
		volumeEffect(stream, n.cfg.Sound.Volume, n.cfg.Sound.Muted),
		beep.Callback(func() {
			close(done)
		}),
	))

	<-done

	if closer != nil {
		return closer.Close()
	}

	return nil
}

// stream returns the configured sound resampled to the speaker rate, or
// the built-in bell.
func (n *Notifier) stream() (beep.Streamer, io.Closer, error) {
	if n.cfg.Sound.File == "" {
		tone, err := generators.SineTone(speakerRate, bellHz)
		if err != nil {
			return nil, nil, err
		}

		return beep.Take(speakerRate.N(bellLength), tone), nil, nil
	}

	s, format, err := decodeSound(n.cfg.Sound.File)
	if err != nil {
		return nil, nil, err
	}

	return beep.Resample(4, format.SampleRate, speakerRate, s), s, nil
}

// decodeSound opens and decodes an mp3, ogg, flac or wav file.
func decodeSound(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, errInvalidSoundFormat
	}

	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, err
	}

	return stream, format, nil
}

// volumeEffect scales s to a 0-100 volume on a logarithmic curve where 100
// leaves the stream unchanged.
func volumeEffect(s beep.Streamer, volume int, muted bool) *effects.Volume {
	v := &effects.Volume{
		Streamer: s,
		Base:     2,
		Silent:   muted || volume <= 0,
	}

	if !v.Silent {
		v.Volume = math.Log2(float64(min(volume, 100)) / 100)
	}

	return v
}

func completionMessage(finished, next models.Phase) (title, msg string) {
	title = finished.Label() + " is finished"

	switch next {
	case models.PhaseShortBreak:
		msg = "Take a breather"
	case models.PhaseLongBreak:
		msg = "Take a long break, you earned it"
	default:
		msg = "Time to refocus"
	}

	return title, msg
}
