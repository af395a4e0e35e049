// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package termio

// FormattedText represents a chunk of text with an optional ANSI format
// applied to it, the unit a FormattedTable cell is built from.
type FormattedText struct {
	// Format to apply to this text (optional)
	format *AnsiEscape
	// Text represents the contents
	text []rune
}

// NewText constructs a new (unformatted) chunk of text.
func NewText(text string) FormattedText {
	return FormattedText{nil, []rune(text)}
}

// NewColouredText constructs a new chunk of text coloured with one of the
// TERM_* foreground codes, used by `atlas inspect` to colour a signal's
// resolved direction (see DirectionColour).
func NewColouredText(text string, colour uint) FormattedText {
	escape := NewAnsiEscape().FgColour(colour)
	return FormattedText{&escape, []rune(text)}
}

// Len returns the number of characters [runes] in this chunk of formatted text.
// Observe that this does not include characters arising from the formatting
// escapes.
func (p *FormattedText) Len() uint {
	return uint(len(p.text))
}

// Clip removes text from the start and end, returning the clipped chunk so
// callers can chain it (e.g. jth = jth.Clip(0, w).Pad(w)).
func (p *FormattedText) Clip(start uint, end uint) FormattedText {
	len := p.Len()
	// clip text entirely
	if start >= len {
		p.text = []rune{}
	} else if end >= len {
		p.text = p.text[start:]
	} else {
		p.text = p.text[start:end]
	}

	return *p
}

// Pad right-pads this chunk with spaces out to width, returning the padded
// chunk for chaining. No-op if the chunk is already at least width long.
func (p *FormattedText) Pad(width uint) FormattedText {
	for uint(len(p.text)) < width {
		p.text = append(p.text, ' ')
	}

	return *p
}

// Bytes returns an ANSI-formatted byte representing of this chunk.
func (p *FormattedText) Bytes() []byte {
	// Append bytes
	if p.format != nil {
		// Apply formatting
		bytes := []byte(p.format.Build())
		// Add content
		bytes = append(bytes, []byte(string(p.text))...)
		// Reset formatting
		escape := ResetAnsiEscape().Build()
		//
		return append(bytes, []byte(escape)...)
	}
	// no formatting
	return []byte(string(p.text))
}
