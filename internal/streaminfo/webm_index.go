package streaminfo

// Matroska/WebM element IDs used by the segment-index builder.
const (
	webmIDEBML               = 0x1A45DFA3
	webmIDSegment            = 0x18538067
	webmIDInfo               = 0x1549A966
	webmIDTimecodeScale      = 0x2AD7B1
	webmIDDuration           = 0x4489
	webmIDCues               = 0x1C53BB6B
	webmIDCuePoint           = 0xBB
	webmIDCueTime            = 0xB3
	webmIDCueTrackPositions  = 0xB7
	webmIDCueClusterPosition = 0xF1
	webmIDCluster            = 0x1F43B675
)

// TimecodeScale defaults to 1,000,000 ns per tick when the Info element
// does not carry one.
const defaultTimecodeScaleNs = 1000000

// webmInitInfo is what the init segment contributes to index arithmetic.
type webmInitInfo struct {
	// segmentOffset is the absolute offset of the Segment payload; cue
	// cluster positions are relative to it.
	segmentOffset int
	// timecodeScale converts unscaled ticks to seconds.
	timecodeScale float64
	// duration is the presentation duration in seconds.
	duration float64
}

// ParseWebmIndex builds a segment index from a WebM init segment and its
// Cues data. Times are presentation-relative seconds; byte ranges of
// adjacent references are contiguous and the final reference is open-ended.
func ParseWebmIndex(
	cuesData, initData []byte,
	uris func() []string,
	initSegment *InitSegmentReference,
	timestampOffset, appendWindowStart, appendWindowEnd float64,
) ([]*SegmentReference, error) {
	initInfo, err := parseWebmContainer(initData)
	if err != nil {
		return nil, err
	}
	cues, err := parseCuesElement(cuesData)
	if err != nil {
		return nil, err
	}
	return buildCueReferences(cues, initInfo, uris, initSegment,
		timestampOffset, appendWindowStart, appendWindowEnd)
}

// parseWebmContainer walks the init segment: an EBML header element
// (skipped), then the Segment whose Info provides the timing parameters.
func parseWebmContainer(initData []byte) (webmInitInfo, error) {
	parser := NewEbmlParser(initData)

	header, err := parser.ParseElement()
	if err != nil {
		return webmInitInfo{}, err
	}
	if header.ID != webmIDEBML {
		return webmInitInfo{}, missingElement("EBML")
	}

	if !parser.HasMoreData() {
		return webmInitInfo{}, missingElement("Segment")
	}
	segment, err := parser.ParseElement()
	if err != nil {
		return webmInitInfo{}, err
	}
	if segment.ID != webmIDSegment {
		return webmInitInfo{}, missingElement("Segment")
	}

	info := webmInitInfo{segmentOffset: segment.GetOffset()}
	if err := parseSegmentInfo(segment, &info); err != nil {
		return webmInitInfo{}, err
	}
	return info, nil
}

func parseSegmentInfo(segment *EbmlElement, out *webmInitInfo) error {
	var infoElement *EbmlElement
	segmentParser := segment.CreateParser()
	for segmentParser.HasMoreData() {
		element, err := segmentParser.ParseElement()
		if err != nil {
			return err
		}
		if element.ID == webmIDInfo {
			infoElement = element
			break
		}
	}
	if infoElement == nil {
		return missingElement("Info")
	}

	timecodeScaleNs := uint64(defaultTimecodeScaleNs)
	durationTicks := 0.0
	haveDuration := false

	infoParser := infoElement.CreateParser()
	for infoParser.HasMoreData() {
		element, err := infoParser.ParseElement()
		if err != nil {
			return err
		}
		switch element.ID {
		case webmIDTimecodeScale:
			timecodeScaleNs, err = element.GetUint()
			if err != nil {
				return err
			}
		case webmIDDuration:
			durationTicks, err = element.GetFloat()
			if err != nil {
				return err
			}
			haveDuration = true
		}
	}
	if !haveDuration {
		return missingElement("Duration")
	}

	out.timecodeScale = float64(timecodeScaleNs) / 1e9
	out.duration = durationTicks * out.timecodeScale
	return nil
}

func parseCuesElement(cuesData []byte) (*EbmlElement, error) {
	parser := NewEbmlParser(cuesData)
	if !parser.HasMoreData() {
		return nil, missingElement("Cues")
	}
	cues, err := parser.ParseElement()
	if err != nil {
		return nil, err
	}
	if cues.ID != webmIDCues {
		return nil, missingElement("Cues")
	}
	return cues, nil
}

// parseCuePoint extracts the unscaled time and relative cluster offset of
// one CuePoint.
func parseCuePoint(cuePoint *EbmlElement) (unscaledTime uint64, relativeOffset uint64, err error) {
	parser := cuePoint.CreateParser()

	if !parser.HasMoreData() {
		return 0, 0, missingElement("CueTime")
	}
	timeElement, err := parser.ParseElement()
	if err != nil {
		return 0, 0, err
	}
	if timeElement.ID != webmIDCueTime {
		return 0, 0, missingElement("CueTime")
	}
	unscaledTime, err = timeElement.GetUint()
	if err != nil {
		return 0, 0, err
	}

	if !parser.HasMoreData() {
		return 0, 0, missingElement("CueTrackPositions")
	}
	positionsElement, err := parser.ParseElement()
	if err != nil {
		return 0, 0, err
	}
	if positionsElement.ID != webmIDCueTrackPositions {
		return 0, 0, missingElement("CueTrackPositions")
	}

	found := false
	positionsParser := positionsElement.CreateParser()
	for positionsParser.HasMoreData() {
		element, err := positionsParser.ParseElement()
		if err != nil {
			return 0, 0, err
		}
		if element.ID == webmIDCueClusterPosition {
			relativeOffset, err = element.GetUint()
			if err != nil {
				return 0, 0, err
			}
			found = true
			break
		}
	}
	if !found {
		// TODO(container): a CuePoint without a ClusterPosition is almost
		// certainly broken media; the zero fallback keeps historically
		// accepted streams playing but should be revisited against real
		// samples.
		logger.Warn().Msg("webm: CuePoint has no CueClusterPosition, assuming offset 0")
	}
	return unscaledTime, relativeOffset, nil
}

func buildCueReferences(
	cues *EbmlElement,
	initInfo webmInitInfo,
	uris func() []string,
	initSegment *InitSegmentReference,
	timestampOffset, appendWindowStart, appendWindowEnd float64,
) ([]*SegmentReference, error) {
	var references []*SegmentReference
	var lastTime float64
	var lastOffset int64
	started := false

	emit := func(endTime float64, endByte int64) {
		references = append(references, &SegmentReference{
			Position:          len(references),
			StartTime:         lastTime + timestampOffset,
			EndTime:           endTime + timestampOffset,
			URIs:              uris,
			StartByte:         lastOffset,
			EndByte:           endByte,
			InitSegment:       initSegment,
			TimestampOffset:   timestampOffset,
			AppendWindowStart: appendWindowStart,
			AppendWindowEnd:   appendWindowEnd,
		})
	}

	cuesParser := cues.CreateParser()
	for cuesParser.HasMoreData() {
		element, err := cuesParser.ParseElement()
		if err != nil {
			return nil, err
		}
		if element.ID != webmIDCuePoint {
			continue
		}
		unscaledTime, relativeOffset, err := parseCuePoint(element)
		if err != nil {
			return nil, err
		}
		currentTime := initInfo.timecodeScale * float64(unscaledTime)
		currentOffset := int64(initInfo.segmentOffset) + int64(relativeOffset)
		if started {
			emit(currentTime, currentOffset-1)
		}
		lastTime = currentTime
		lastOffset = currentOffset
		started = true
	}

	if started {
		// The last cue covers the rest of the file.
		emit(initInfo.duration, -1)
	}
	return references, nil
}
