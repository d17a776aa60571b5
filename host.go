package hpack

// Host is the narrow surface this codec asks its embedder for: the
// negotiated ceiling on dynamic table size, and a way to signal a
// connection-fatal compression error. The codec never reads settings,
// frames, or connection state directly.
type Host interface {
	// MaxHeaderTableSize returns the maximum dynamic table size this side
	// has negotiated with its peer.
	MaxHeaderTableSize() int
	// Raise reports a COMPRESSION_ERROR. The host is expected to treat this
	// as fatal to the connection the codec is attached to.
	Raise(err error)
}

// defaultHost is used when a Decoder or Encoder is constructed without an
// explicit Host, the same "harmless default" shape as the teacher's logged
// embed defaulting its *log.Logger to ioutil.Discard.
type defaultHost struct {
	maxSize int
}

func (h defaultHost) MaxHeaderTableSize() int { return h.maxSize }
func (h defaultHost) Raise(error)             {}
