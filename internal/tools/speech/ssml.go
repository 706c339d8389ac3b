// Package speech builds SSML export documents from speech synthesis
// parameters. The service does not synthesize audio; SSML is the
// configuration format the text-to-speech tool exports for download.
package speech

import (
	"encoding/xml"
	"fmt"
)

// Parameter ranges, matching the Web Speech API
const (
	MinRate   = 0.1
	MaxRate   = 2.0
	MinPitch  = 0.0
	MaxPitch  = 2.0
	MinVolume = 0.0
	MaxVolume = 1.0
)

// Params holds the transient synthesis parameters for one utterance.
type Params struct {
	Text   string
	Voice  string
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultParams returns neutral synthesis settings.
func DefaultParams() Params {
	return Params{Rate: 1.0, Pitch: 1.0, Volume: 1.0}
}

// Validate checks the parameter ranges and that there is text to speak.
func (p Params) Validate() error {
	if p.Text == "" {
		return fmt.Errorf("text is required")
	}
	if p.Rate < MinRate || p.Rate > MaxRate {
		return fmt.Errorf("rate %v out of range [%v, %v]", p.Rate, MinRate, MaxRate)
	}
	if p.Pitch < MinPitch || p.Pitch > MaxPitch {
		return fmt.Errorf("pitch %v out of range [%v, %v]", p.Pitch, MinPitch, MaxPitch)
	}
	if p.Volume < MinVolume || p.Volume > MaxVolume {
		return fmt.Errorf("volume %v out of range [%v, %v]", p.Volume, MinVolume, MaxVolume)
	}
	return nil
}

type ssmlVoice struct {
	Name string `xml:"name,attr,omitempty"`
	Text string `xml:",chardata"`
}

type ssmlProsody struct {
	Rate   string     `xml:"rate,attr"`
	Pitch  string     `xml:"pitch,attr"`
	Volume string     `xml:"volume,attr"`
	Voice  *ssmlVoice `xml:"voice,omitempty"`
	Text   string     `xml:",chardata"`
}

type ssmlSpeak struct {
	XMLName xml.Name    `xml:"speak"`
	Version string      `xml:"version,attr"`
	Xmlns   string      `xml:"xmlns,attr"`
	Lang    string      `xml:"xml:lang,attr"`
	Prosody ssmlProsody `xml:"prosody"`
}

// Document renders the parameters as an SSML document. Rate and pitch
// are emitted as signed percentages relative to the neutral value 1.0;
// volume as an absolute percentage.
func Document(p Params, lang string) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if lang == "" {
		lang = "en-US"
	}

	prosody := ssmlProsody{
		Rate:   relativePercent(p.Rate),
		Pitch:  relativePercent(p.Pitch),
		Volume: fmt.Sprintf("%.0f%%", p.Volume*100),
	}
	if p.Voice != "" {
		prosody.Voice = &ssmlVoice{Name: p.Voice, Text: p.Text}
	} else {
		prosody.Text = p.Text
	}

	doc := ssmlSpeak{
		Version: "1.0",
		Xmlns:   "http://www.w3.org/2001/10/synthesis",
		Lang:    lang,
		Prosody: prosody,
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ssml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// relativePercent formats a multiplier as an SSML relative change,
// e.g. 1.5 -> "+50%", 0.8 -> "-20%".
func relativePercent(v float64) string {
	pct := (v - 1.0) * 100
	return fmt.Sprintf("%+.0f%%", pct)
}
