package imstiff

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// commentKey is the unstructured metadata key under which the raw comment is stored.
const commentKey = "Comment"

// CommentMetadata is the content of an INI-like Imaris comment.
//
// Wavelengths and names are listed in the order they appear in the comment;
// the n-th entry of each list is assumed to describe channel n. A channel
// whose block is missing from the comment shifts all the following ones.
type CommentMetadata struct {
	Pairs                 []KeyValue `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Description           *string    `json:"description,omitempty" yaml:"description,omitempty"`
	AcquiredDate          *string    `json:"acquired_date,omitempty" yaml:"acquired_date,omitempty"`
	EmissionWavelengths   []int      `json:"emission_wavelengths,omitempty" yaml:"emission_wavelengths,omitempty"`
	ExcitationWavelengths []int      `json:"excitation_wavelengths,omitempty" yaml:"excitation_wavelengths,omitempty"`
	ChannelNames          []string   `json:"channel_names,omitempty" yaml:"channel_names,omitempty"`
}

// Channels zips wavelengths and names by position.
func (m *CommentMetadata) Channels() []Channel {
	n := len(m.EmissionWavelengths)
	if len(m.ExcitationWavelengths) > n {
		n = len(m.ExcitationWavelengths)
	}
	if len(m.ChannelNames) > n {
		n = len(m.ChannelNames)
	}

	channels := make([]Channel, n)
	for i := range channels {
		if i < len(m.EmissionWavelengths) {
			v := m.EmissionWavelengths[i]
			channels[i].EmissionWavelength = &v
		}
		if i < len(m.ExcitationWavelengths) {
			v := m.ExcitationWavelengths[i]
			channels[i].ExcitationWavelength = &v
		}
		if i < len(m.ChannelNames) {
			v := m.ChannelNames[i]
			channels[i].Name = &v
		}
	}
	return channels
}

// Populate writes the structured fields into store.
func (m *CommentMetadata) Populate(store MetadataStore) {
	if m.Description != nil {
		store.SetImageDescription(*m.Description)
	}
	if m.AcquiredDate != nil {
		store.SetImageAcquiredDate(*m.AcquiredDate)
	}
	for i, c := range m.Channels() {
		if c.EmissionWavelength != nil {
			store.SetChannelEmissionWavelength(i, *c.EmissionWavelength)
		}
		if c.ExcitationWavelength != nil {
			store.SetChannelExcitationWavelength(i, *c.ExcitationWavelength)
		}
		if c.Name != nil {
			store.SetChannelName(i, *c.Name)
		}
	}
}

// IsINIComment reports whether the comment looks like INI content,
// i.e. its first non-whitespace character is '['.
func IsINIComment(comment string) bool {
	return strings.HasPrefix(strings.TrimSpace(comment), "[")
}

//------------------------//
// Key routing            //
//------------------------//

type keyHandler func(m *CommentMetadata, fileID, value string) error

// keyHandlers routes the recognized keys. Other keys are only forwarded as unstructured metadata.
var keyHandlers = map[string]keyHandler{
	"Description": func(m *CommentMetadata, _, value string) error {
		m.Description = &value
		return nil
	},
	"LSMEmissionWavelength": func(m *CommentMetadata, _, value string) error {
		nm, ok, err := parseWavelength(value)
		if ok {
			m.EmissionWavelengths = append(m.EmissionWavelengths, nm)
		}
		return errors.Wrap(err, "LSMEmissionWavelength")
	},
	"LSMExcitationWavelength": func(m *CommentMetadata, _, value string) error {
		nm, ok, err := parseWavelength(value)
		if ok {
			m.ExcitationWavelengths = append(m.ExcitationWavelengths, nm)
		}
		return errors.Wrap(err, "LSMExcitationWavelength")
	},
	"Name": func(m *CommentMetadata, fileID, value string) error {
		// The file name itself is also stored under Name.
		if !strings.HasSuffix(fileID, value) {
			m.ChannelNames = append(m.ChannelNames, value)
		}
		return nil
	},
	"RecordingDate": func(m *CommentMetadata, _, value string) error {
		date := strings.ReplaceAll(value, " ", "T")
		if i := strings.IndexByte(date, '.'); i >= 0 {
			date = date[:i]
		}
		m.AcquiredDate = &date
		return nil
	},
}

// parseWavelength returns the wavelength in nm and whether it is set.
// "0" and empty values mean unset.
func parseWavelength(value string) (int, bool, error) {
	if value == "" || value == "0" {
		return 0, false, nil
	}
	nm, err := strconv.Atoi(value)
	if err != nil || nm <= 0 {
		return 0, false, errors.Wrapf(ErrInvalidWavelength, "%q", value)
	}
	return nm, true, nil
}

// ExtractComment parses an INI-like comment into key/value pairs and
// structured metadata. fileID is the name of the opened file.
//
// Every pair is forwarded to sink as unstructured metadata, then the raw
// comment entry is removed from sink. A comment that does not start with '['
// is left untouched and yields empty metadata. sink may be nil.
func ExtractComment(comment, fileID string, sink MetadataStore) (*CommentMetadata, error) {
	m := &CommentMetadata{}
	if !IsINIComment(comment) {
		return m, nil
	}

	Infof("Parsing comment")

	for _, line := range strings.Split(comment, "\n") {
		equals := strings.IndexByte(line, '=')
		if equals < 0 {
			continue
		}
		key := strings.TrimSpace(line[:equals])
		value := strings.TrimSpace(line[equals+1:])

		m.Pairs = append(m.Pairs, KeyValue{Key: key, Value: value})
		if sink != nil {
			sink.AddGlobal(key, value)
		}

		if handle, ok := keyHandlers[key]; ok {
			if err := handle(m, fileID, value); err != nil {
				return nil, err
			}
		}
	}

	if sink != nil {
		sink.RemoveGlobal(commentKey)
	}
	return m, nil
}
