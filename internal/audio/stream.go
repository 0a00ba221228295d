package audio

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
)

// Player plays a Synth on the default output device.
type Player struct {
	*Synth
	stream *portaudio.Stream
	logger *log.Logger
}

func NewPlayer(logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{Synth: NewSynth(), logger: logger}
}

// Start opens an output-only stereo stream. Duplex streams often fail on
// Linux when input and output devices differ.
func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.callback)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}
	p.stream = stream
	p.logger.Info("audio started", "rate", SampleRate, "buffer", BufferSize)
	return nil
}

func (p *Player) Active() bool { return p.stream != nil }

func (p *Player) Stop() {
	if p.stream == nil {
		return
	}
	p.stream.Stop()
	p.stream.Close()
	p.stream = nil
	portaudio.Terminate()
	p.logger.Info("audio stopped")
}

func (p *Player) callback(out [][]float32) {
	p.Process(out)
}
