package streaminfo

import (
	"encoding/base64"
	"strings"
)

// Scheme URIs and key systems known to the resolver. The tables are built
// once; per-call state lives in parsedProtection values.
const cencSchemeURI = "urn:mpeg:dash:mp4protection:2011"

var keySystemsByURI = map[string]string{
	"urn:uuid:1077efec-c0b2-4d02-ace3-3c1e52e2fb4b": "org.w3.clearkey",
	"urn:uuid:edef8ba9-79d6-4ace-a3c8-27dcd51d21ed": "com.widevine.alpha",
	"urn:uuid:9a04f079-9840-4286-ab92-e65be0885f95": "com.microsoft.playready",
	"urn:uuid:f239e769-efa3-4850-9c16-a903c6932efb": "com.adobe.primetime",
}

var licenseURLParsers = map[string]func(*ContentProtectionElement) string{
	"com.widevine.alpha":      widevineLicenseURL,
	"com.microsoft.playready": playReadyLicenseURL,
}

// ContentProtectionElement is one ContentProtection element as it appears in
// an MPD, under either an AdaptationSet or a Representation. The XML tags
// let callers unmarshal it straight out of a manifest; namespace prefixes
// (cenc:, mspr:, ms:) are matched by local name.
type ContentProtectionElement struct {
	SchemeIDURI string `xml:"schemeIdUri,attr"`
	Value       string `xml:"value,attr"`
	// DefaultKID is the cenc:default_KID attribute, UUID form.
	DefaultKID string `xml:"default_KID,attr"`
	// Pssh holds base64 cenc:pssh children.
	Pssh []string `xml:"pssh"`
	// Laurl holds ms:laurl children carrying Widevine license URLs.
	Laurl []LaurlElement `xml:"laurl"`
	// Pro is the base64 mspr:pro child, a PlayReady Object.
	Pro string `xml:"pro"`
}

type LaurlElement struct {
	LicenseURL string `xml:"licenseUrl,attr"`
}

// InitDataEntry is one piece of encryption init data handed to EME.
type InitDataEntry struct {
	// Type is the init-data type name, always "cenc" here.
	Type string
	Data []byte
	// KeyID is 32 lowercase hex digits, or "" when unknown.
	KeyID string
}

// DrmInfo describes one key system usable for the content.
type DrmInfo struct {
	// KeySystem is the reverse-domain key system name, "" when the scheme
	// was recognized as protection but not mapped to a concrete system.
	KeySystem        string
	LicenseServerURI string
	InitData         []InitDataEntry
}

// DrmCallback lets the caller turn an unrecognized ContentProtection
// element into DrmInfo values; returning nil means the element contributes
// nothing.
type DrmCallback func(element *ContentProtectionElement) []DrmInfo

// ContentProtectionContext carries DRM state from an AdaptationSet scan into
// the per-Representation scans. It must be updated exactly once per
// Representation, in manifest document order; the single-writer contract is
// the caller's sequencing, not a lock.
type ContentProtectionContext struct {
	DefaultKeyID string
	DefaultInit  []InitDataEntry
	DrmInfos     []DrmInfo

	firstRepresentation bool
}

// parsedElement pairs an element with its normalized key ID and decoded
// init data.
type parsedElement struct {
	element   *ContentProtectionElement
	keyID     string
	schemeURI string
	init      []InitDataEntry
}

// ParseFromAdaptationSet resolves the ContentProtection elements of an
// AdaptationSet into a context for its Representations.
func ParseFromAdaptationSet(
	elements []*ContentProtectionElement,
	callback DrmCallback,
	ignoreDrmInfo bool,
) (*ContentProtectionContext, error) {
	parsed, defaultKeyID, err := parseElements(elements)
	if err != nil {
		return nil, err
	}

	var defaultInit []InitDataEntry
	var nonCenc []parsedElement
	for _, p := range parsed {
		if p.schemeURI == cencSchemeURI {
			// Generic CENC elements only contribute init data.
			if defaultInit == nil && len(p.init) > 0 {
				defaultInit = p.init
			}
		} else {
			nonCenc = append(nonCenc, p)
		}
	}

	var drmInfos []DrmInfo
	if len(nonCenc) > 0 {
		drmInfos = convertElements(nonCenc, defaultInit, callback)
		if len(drmInfos) == 0 {
			// Protection was declared but no scheme could be identified;
			// keep a single unknown-system placeholder so the content is
			// still treated as encrypted.
			drmInfos = []DrmInfo{{KeySystem: "", InitData: defaultInit}}
		}
	}
	if len(parsed) > 0 && (ignoreDrmInfo || len(nonCenc) == 0) {
		// Only common encryption was declared (or the caller asked us to
		// disregard the declared systems); synthesize an info per well-known
		// system so license acquisition can still be attempted. ClearKey is
		// excluded: it never has an external license flow to probe.
		drmInfos = nil
		for _, keySystem := range []string{
			"com.widevine.alpha",
			"com.microsoft.playready",
			"com.adobe.primetime",
		} {
			drmInfos = append(drmInfos, DrmInfo{
				KeySystem: keySystem,
				InitData:  defaultInit,
			})
		}
	}

	if defaultKeyID != "" {
		propagateKeyID(drmInfos, defaultKeyID)
	}
	return &ContentProtectionContext{
		DefaultKeyID:        defaultKeyID,
		DefaultInit:         defaultInit,
		DrmInfos:            drmInfos,
		firstRepresentation: true,
	}, nil
}

// ParseFromRepresentation re-parses Representation-scoped elements and
// reconciles them with the AdaptationSet context, returning the resolved
// default key ID.
func ParseFromRepresentation(
	elements []*ContentProtectionElement,
	callback DrmCallback,
	ctx *ContentProtectionContext,
	ignoreDrmInfo bool,
) (string, error) {
	repContext, err := ParseFromAdaptationSet(elements, callback, ignoreDrmInfo)
	if err != nil {
		return "", err
	}

	if ctx.firstRepresentation {
		ctx.firstRepresentation = false
		asUnencrypted := len(ctx.DrmInfos) == 0
		asUnknown := len(ctx.DrmInfos) == 1 && ctx.DrmInfos[0].KeySystem == ""
		if (asUnencrypted || asUnknown) && len(repContext.DrmInfos) > 0 {
			// The AdaptationSet said nothing concrete; trust the first
			// Representation.
			ctx.DrmInfos = repContext.DrmInfos
		}
	} else if len(repContext.DrmInfos) > 0 {
		// Every Representation of an AdaptationSet must share at least one
		// key system; narrow the context to the intersection.
		var common []DrmInfo
		for _, info := range ctx.DrmInfos {
			for _, repInfo := range repContext.DrmInfos {
				if info.KeySystem == repInfo.KeySystem {
					common = append(common, info)
					break
				}
			}
		}
		if len(common) == 0 {
			return "", drmError(CodeNoCommonKeySystem,
				"Representations of one AdaptationSet declare no common key system")
		}
		ctx.DrmInfos = common
	}

	if repContext.DefaultKeyID != "" {
		return repContext.DefaultKeyID, nil
	}
	return ctx.DefaultKeyID, nil
}

// parseElements normalizes elements and enforces the single-key-ID rules.
func parseElements(elements []*ContentProtectionElement) ([]parsedElement, string, error) {
	var parsed []parsedElement
	defaultKeyID := ""
	for _, element := range elements {
		if element.SchemeIDURI == "" {
			logger.Warn().Msg("contentprotection: element without schemeIdUri, skipping")
			continue
		}
		p, err := parseElement(element)
		if err != nil {
			return nil, "", err
		}
		if p.keyID != "" {
			if defaultKeyID != "" && p.keyID != defaultKeyID {
				return nil, "", drmError(CodeConflictingKeyIDs,
					"ContentProtection elements declare conflicting default key IDs")
			}
			defaultKeyID = p.keyID
		}
		parsed = append(parsed, p)
	}
	return parsed, defaultKeyID, nil
}

func parseElement(element *ContentProtectionElement) (parsedElement, error) {
	keyID := ""
	if element.DefaultKID != "" {
		keyID = strings.ToLower(strings.ReplaceAll(element.DefaultKID, "-", ""))
		if strings.ContainsAny(keyID, " \t\r\n") {
			return parsedElement{}, drmError(CodeMultipleKeyIDsNotSupported,
				"whitespace in default_KID: multiple key IDs are not supported")
		}
	}
	var init []InitDataEntry
	for _, pssh := range element.Pssh {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(pssh))
		if err != nil {
			return parsedElement{}, drmError(CodeBadPsshEncoding,
				"cenc:pssh is not valid base64: %v", err)
		}
		init = append(init, InitDataEntry{Type: "cenc", Data: data, KeyID: keyID})
	}
	return parsedElement{
		element:   element,
		keyID:     keyID,
		schemeURI: strings.ToLower(element.SchemeIDURI),
		init:      init,
	}, nil
}

// convertElements maps non-CENC elements to DrmInfo through the static
// scheme table, falling back to the caller for unknown schemes.
func convertElements(
	parsed []parsedElement,
	defaultInit []InitDataEntry,
	callback DrmCallback,
) []DrmInfo {
	var drmInfos []DrmInfo
	for _, p := range parsed {
		keySystem, known := keySystemsByURI[p.schemeURI]
		if !known {
			if callback != nil {
				drmInfos = append(drmInfos, callback(p.element)...)
			}
			continue
		}
		licenseServerURI := ""
		if parse := licenseURLParsers[keySystem]; parse != nil {
			licenseServerURI = parse(p.element)
		}
		initData := p.init
		if len(initData) == 0 {
			initData = defaultInit
		}
		drmInfos = append(drmInfos, DrmInfo{
			KeySystem:        keySystem,
			LicenseServerURI: licenseServerURI,
			InitData:         initData,
		})
	}
	return drmInfos
}

func propagateKeyID(drmInfos []DrmInfo, keyID string) {
	for i := range drmInfos {
		for j := range drmInfos[i].InitData {
			drmInfos[i].InitData[j].KeyID = keyID
		}
	}
}

func widevineLicenseURL(element *ContentProtectionElement) string {
	for _, laurl := range element.Laurl {
		if laurl.LicenseURL != "" {
			return laurl.LicenseURL
		}
	}
	return ""
}

func playReadyLicenseURL(element *ContentProtectionElement) string {
	if element.Pro == "" {
		return ""
	}
	pro, err := base64.StdEncoding.DecodeString(strings.TrimSpace(element.Pro))
	if err != nil {
		logger.Warn().Err(err).Msg("contentprotection: mspr:pro is not valid base64")
		return ""
	}
	return PlayReadyLicenseURL(pro)
}
