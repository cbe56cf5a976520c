// Command polyfm-render renders a single note with a factory preset to a
// WAV file.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cbegin/polyfm-go"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

func main() {
	note := flag.Int("note", 69, "MIDI note number (69 = A4 = 440 Hz)")
	hold := flag.Float64("hold", 1.0, "Seconds to hold the note before release")
	tail := flag.Float64("tail", 1.5, "Seconds to render after release (envelope and effect tails)")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	presetName := flag.String("preset", "Init", "Factory preset name (use -list to see them)")
	list := flag.Bool("list", false, "List factory presets and exit")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	presets := polyfm.FactoryPresets()
	if *list {
		for _, p := range presets {
			fmt.Println(p.Name)
		}
		return
	}

	var preset *polyfm.Preset
	for i := range presets {
		if strings.EqualFold(presets[i].Name, *presetName) {
			preset = &presets[i]
			break
		}
	}
	if preset == nil {
		fmt.Fprintf(os.Stderr, "Unknown preset %q (use -list)\n", *presetName)
		os.Exit(1)
	}

	fmt.Printf("Rendering note %d with preset %s for %.2fs+%.2fs at %d Hz...\n",
		*note, preset.Name, *hold, *tail, *sampleRate)

	samples, err := polyfm.RenderNote(*preset, *note, *sampleRate, *hold, *tail)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	file, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	const numChannels = 2
	encoder := wav.NewEncoder(file, *sampleRate, 16, numChannels, 1)
	defer encoder.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  *sampleRate,
			NumChannels: numChannels,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, len(samples)/numChannels)
}
