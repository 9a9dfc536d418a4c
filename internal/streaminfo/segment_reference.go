package streaminfo

// InitSegmentReference points at the bytes needed to initialize the decoder
// before any media segment is appended.
type InitSegmentReference struct {
	// URIs resolves lazily so relative manifest URLs can be re-resolved
	// against an updated base without rebuilding the index.
	URIs      func() []string
	StartByte int64
	// EndByte is -1 for an open-ended range.
	EndByte int64
}

// SegmentReference describes one media segment: its presentation time span
// and the byte range to fetch.
type SegmentReference struct {
	// Position is the ordinal index of the segment in the index, assigned in
	// ascending time order.
	Position  int
	StartTime float64
	EndTime   float64
	URIs      func() []string
	StartByte int64
	// EndByte is -1 for an open-ended range. Adjacent references cover
	// contiguous ranges: the next segment starts at this one's EndByte+1.
	EndByte         int64
	InitSegment     *InitSegmentReference
	TimestampOffset float64
	// AppendWindowStart and AppendWindowEnd bound the presentation times a
	// media source will accept from this segment.
	AppendWindowStart float64
	AppendWindowEnd   float64
}

// HasOpenRange reports whether the reference's byte range is open-ended.
func (r *SegmentReference) HasOpenRange() bool {
	return r.EndByte < 0
}
