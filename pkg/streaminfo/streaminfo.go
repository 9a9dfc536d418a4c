package streaminfo

import (
	"github.com/autobrr/go-streaminfo/internal/streaminfo"
)

// Types
type Error = streaminfo.Error
type ErrorCode = streaminfo.ErrorCode
type Reader = streaminfo.Reader
type Box = streaminfo.Box
type BoxParser = streaminfo.BoxParser
type BoxHandler = streaminfo.BoxHandler
type EbmlParser = streaminfo.EbmlParser
type EbmlElement = streaminfo.EbmlElement
type Pssh = streaminfo.Pssh
type PlayReadyRecord = streaminfo.PlayReadyRecord
type PlayReadyRecordType = streaminfo.PlayReadyRecordType
type SegmentReference = streaminfo.SegmentReference
type InitSegmentReference = streaminfo.InitSegmentReference
type ContentProtectionElement = streaminfo.ContentProtectionElement
type LaurlElement = streaminfo.LaurlElement
type ContentProtectionContext = streaminfo.ContentProtectionContext
type DrmInfo = streaminfo.DrmInfo
type InitDataEntry = streaminfo.InitDataEntry
type DrmCallback = streaminfo.DrmCallback
type Report = streaminfo.Report

// Constants
const (
	CategoryMedia    = streaminfo.CategoryMedia
	CategoryDRM      = streaminfo.CategoryDRM
	CategoryManifest = streaminfo.CategoryManifest

	CodeMalformedContainer         = streaminfo.CodeMalformedContainer
	CodeMissingRequiredElement     = streaminfo.CodeMissingRequiredElement
	CodeConflictingKeyIDs          = streaminfo.CodeConflictingKeyIDs
	CodeNoCommonKeySystem          = streaminfo.CodeNoCommonKeySystem
	CodeMultipleKeyIDsNotSupported = streaminfo.CodeMultipleKeyIDsNotSupported
	CodeBadPsshEncoding            = streaminfo.CodeBadPsshEncoding

	WidevineSystemID  = streaminfo.WidevineSystemID
	PlayReadySystemID = streaminfo.PlayReadySystemID
	CommonSystemID    = streaminfo.CommonSystemID

	PlayReadyRightsManagement = streaminfo.PlayReadyRightsManagement
	PlayReadyReserved         = streaminfo.PlayReadyReserved
	PlayReadyEmbeddedLicense  = streaminfo.PlayReadyEmbeddedLicense
)

// Containers
func NewReader(data []byte) *Reader {
	return streaminfo.NewReader(data)
}

func NewBoxParser() *BoxParser {
	return streaminfo.NewBoxParser()
}

func NewEbmlParser(data []byte) *EbmlParser {
	return streaminfo.NewEbmlParser(data)
}

func Children(box *Box) error {
	return streaminfo.Children(box)
}

func AllData(callback func(data []byte) error) BoxHandler {
	return streaminfo.AllData(callback)
}

// Segment indexing
func ParseWebmIndex(
	cuesData, initData []byte,
	uris func() []string,
	initSegment *InitSegmentReference,
	timestampOffset, appendWindowStart, appendWindowEnd float64,
) ([]*SegmentReference, error) {
	return streaminfo.ParseWebmIndex(cuesData, initData, uris, initSegment,
		timestampOffset, appendWindowStart, appendWindowEnd)
}

// DRM init data
func ParsePssh(data []byte) (*Pssh, error) {
	return streaminfo.ParsePssh(data)
}

func CreatePssh(data, systemID []byte) []byte {
	return streaminfo.CreatePssh(data, systemID)
}

func NormaliseInitData(data []byte) ([]byte, error) {
	return streaminfo.NormaliseInitData(data)
}

func ParsePlayReadyObject(pro []byte) []PlayReadyRecord {
	return streaminfo.ParsePlayReadyObject(pro)
}

func PlayReadyLicenseURL(pro []byte) string {
	return streaminfo.PlayReadyLicenseURL(pro)
}

// Manifest protection resolution
func ParseFromAdaptationSet(elements []*ContentProtectionElement, callback DrmCallback, ignoreDrmInfo bool) (*ContentProtectionContext, error) {
	return streaminfo.ParseFromAdaptationSet(elements, callback, ignoreDrmInfo)
}

func ParseFromRepresentation(elements []*ContentProtectionElement, callback DrmCallback, ctx *ContentProtectionContext, ignoreDrmInfo bool) (string, error) {
	return streaminfo.ParseFromRepresentation(elements, callback, ctx, ignoreDrmInfo)
}

// Inspection
func InspectFile(path string) (Report, error) {
	return streaminfo.InspectFile(path)
}

func InspectWebmIndex(initPath, cuesPath string) (Report, error) {
	return streaminfo.InspectWebmIndex(initPath, cuesPath)
}

func InspectPlayReady(encoded string) (Report, error) {
	return streaminfo.InspectPlayReady(encoded)
}

// Rendering
func RenderText(reports []Report) string {
	return streaminfo.RenderText(reports)
}

func RenderJSON(reports []Report) string {
	return streaminfo.RenderJSON(reports)
}

func IsCode(err error, code ErrorCode) bool {
	return streaminfo.IsCode(err, code)
}

func FormatVersion(version string) string {
	return streaminfo.FormatVersion(version)
}

func SetAppVersion(version string) {
	streaminfo.SetAppVersion(version)
}
