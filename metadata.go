package imstiff

// A MetadataStore receives the metadata extracted from a file.
type MetadataStore interface {
	// AddGlobal records an unstructured key/value pair. A later value replaces an earlier one.
	AddGlobal(key, value string)
	// RemoveGlobal deletes an unstructured key.
	RemoveGlobal(key string)

	SetPixels(dims Dimensions)
	SetImageDescription(description string)
	SetImageAcquiredDate(date string)
	SetChannelEmissionWavelength(channel, nm int)
	SetChannelExcitationWavelength(channel, nm int)
	SetChannelName(channel int, name string)
}

// Channel holds the structured metadata of one channel. Nil fields are unknown.
type Channel struct {
	EmissionWavelength   *int    `json:"emission_wavelength,omitempty" yaml:"emission_wavelength,omitempty"`
	ExcitationWavelength *int    `json:"excitation_wavelength,omitempty" yaml:"excitation_wavelength,omitempty"`
	Name                 *string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Image holds the structured metadata of the image. Nil fields are unknown.
type Image struct {
	Description  *string `json:"description,omitempty" yaml:"description,omitempty"`
	AcquiredDate *string `json:"acquired_date,omitempty" yaml:"acquired_date,omitempty"`
}

// KeyValue is one unstructured metadata entry.
type KeyValue struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Store is an in-memory MetadataStore.
type Store struct {
	Pixels   Dimensions `json:"pixels" yaml:"pixels"`
	Image    Image      `json:"image" yaml:"image"`
	Channels []Channel  `json:"channels,omitempty" yaml:"channels,omitempty"`

	global map[string]string
	keys   []string // Insertion order of global.
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{global: make(map[string]string)}
}

// AddGlobal sets an unstructured key. A new key is appended to the entry order.
func (s *Store) AddGlobal(key, value string) {
	if _, ok := s.global[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.global[key] = value
}

// RemoveGlobal deletes an unstructured key, if present.
func (s *Store) RemoveGlobal(key string) {
	if _, ok := s.global[key]; !ok {
		return
	}
	delete(s.global, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i:i], s.keys[i+1:]...)
			break
		}
	}
}

// Global returns the value of an unstructured key.
func (s *Store) Global(key string) (string, bool) {
	v, ok := s.global[key]
	return v, ok
}

// GlobalEntries returns the unstructured entries in insertion order.
func (s *Store) GlobalEntries() []KeyValue {
	kvs := make([]KeyValue, 0, len(s.keys))
	for _, k := range s.keys {
		kvs = append(kvs, KeyValue{Key: k, Value: s.global[k]})
	}
	return kvs
}

// SetPixels records the logical dimensions.
func (s *Store) SetPixels(dims Dimensions) {
	s.Pixels = dims
}

// SetImageDescription implements MetadataStore.
func (s *Store) SetImageDescription(description string) {
	s.Image.Description = &description
}

// SetImageAcquiredDate implements MetadataStore.
func (s *Store) SetImageAcquiredDate(date string) {
	s.Image.AcquiredDate = &date
}

// SetChannelEmissionWavelength sets the emission wavelength of a channel, in nm.
func (s *Store) SetChannelEmissionWavelength(channel, nm int) {
	s.channel(channel).EmissionWavelength = &nm
}

// SetChannelExcitationWavelength sets the excitation wavelength of a channel, in nm.
func (s *Store) SetChannelExcitationWavelength(channel, nm int) {
	s.channel(channel).ExcitationWavelength = &nm
}

// SetChannelName sets the name of a channel.
func (s *Store) SetChannelName(channel int, name string) {
	s.channel(channel).Name = &name
}

// channel grows Channels as needed.
func (s *Store) channel(i int) *Channel {
	for len(s.Channels) <= i {
		s.Channels = append(s.Channels, Channel{})
	}
	return &s.Channels[i]
}
