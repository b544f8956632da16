package domain

// DigestEntry pairs a ranked record with its assigned marker.
type DigestEntry struct {
	Rank   int
	Anime  Anime
	Marker MarkerID
	Source MarkerSource
}

// Digest is one formatted batch: the message text plus the markers, in rank
// order, to attach as reactions once the text is posted.
type Digest struct {
	Header  string
	Text    string
	Entries []DigestEntry
}

// Markers returns the entry markers in rank order.
func (d *Digest) Markers() []MarkerID {
	out := make([]MarkerID, 0, len(d.Entries))
	for _, e := range d.Entries {
		out = append(out, e.Marker)
	}

	return out
}

// MessageRef identifies a posted chat message.
type MessageRef struct {
	Channel   string
	Timestamp string
}
