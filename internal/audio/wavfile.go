package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

// WriteTempWAV serializes PCM16 mono samples into a temporary WAV file and
// returns its path together with a cleanup func. Callers must invoke cleanup
// on every outcome path so no serialized audio outlives the transcription
// attempt.
func WriteTempWAV(samples []int16, sampleRate int) (string, func(), error) {
	if sampleRate <= 0 {
		sampleRate = 16000
	}

	file, err := os.CreateTemp("", fmt.Sprintf("voxtype-%s-*.wav", uuid.NewString()[:8]))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp wav: %w", err)
	}
	path := file.Name()
	cleanup := func() { _ = os.Remove(path) }

	enc := wav.NewEncoder(file, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(v)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = file.Close()
		cleanup()
		return "", nil, fmt.Errorf("wav write failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = file.Close()
		cleanup()
		return "", nil, fmt.Errorf("wav close failed: %w", err)
	}
	if err := file.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("wav file close failed: %w", err)
	}

	return path, cleanup, nil
}

// PCMBytes converts samples to little-endian 16-bit PCM, the wire format of
// the streaming transcription providers.
func PCMBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		out[i*2] = byte(sample)
		out[i*2+1] = byte(sample >> 8)
	}
	return out
}
