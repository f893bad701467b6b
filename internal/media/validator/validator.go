// Package validator holds the upload checks shared by the media and session
// stores. The same Check backs both the guard form (Validate, which returns
// an error before any network I/O) and the predicate form (IsValid), so the
// two can never disagree on thresholds.
package validator

import (
	"fmt"
	"strconv"
	"strings"

	"marketplace/client/internal/apperr"
	"marketplace/client/internal/media/sniffer"
	"marketplace/client/internal/models"
)

const DefaultMaxBytes int64 = 2 * 1024 * 1024

var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type Rules struct {
	MaxBytes     int64
	AllowedTypes []string
	// CheckExtension rejects filenames whose extension is not an image one.
	CheckExtension bool
	// SniffContent compares the declared type against the payload's magic
	// bytes when the payload is present.
	SniffContent bool
}

func DefaultRules() Rules {
	return Rules{
		MaxBytes:       DefaultMaxBytes,
		AllowedTypes:   append([]string(nil), DefaultAllowedTypes...),
		CheckExtension: true,
		SniffContent:   true,
	}
}

type Validator struct {
	rules   Rules
	allowed map[string]struct{}
}

func New(rules Rules) *Validator {
	if rules.MaxBytes <= 0 {
		rules.MaxBytes = DefaultMaxBytes
	}
	if len(rules.AllowedTypes) == 0 {
		rules.AllowedTypes = append([]string(nil), DefaultAllowedTypes...)
	}
	allowed := make(map[string]struct{}, len(rules.AllowedTypes))
	for _, t := range rules.AllowedTypes {
		allowed[sniffer.NormalizeMIME(t)] = struct{}{}
	}
	return &Validator{rules: rules, allowed: allowed}
}

func Default() *Validator {
	return New(DefaultRules())
}

// Result is the outcome of a check. Err is one of the apperr validation
// sentinels when OK is false.
type Result struct {
	OK          bool
	Reason      string
	Err         error
	ContentType string
}

func (v *Validator) Check(file models.File) Result {
	size := file.Size
	if size == 0 && len(file.Content) > 0 {
		size = int64(len(file.Content))
	}

	if size <= 0 {
		return fail(apperr.ErrEmptyFile, "File is empty or not provided")
	}

	if size > v.rules.MaxBytes {
		return fail(apperr.ErrFileTooLarge, fmt.Sprintf(
			"File size exceeds maximum limit of %s. Current size: %.2fMB",
			formatMB(v.rules.MaxBytes), float64(size)/1024/1024))
	}

	contentType := sniffer.NormalizeMIME(file.ContentType)
	sniffed := ""
	if v.rules.SniffContent && len(file.Content) > 0 {
		if res, err := sniffer.DetectHead(file.Content); err == nil {
			sniffed = res.MIME
		}
	}
	if contentType == "" {
		contentType = sniffed
	}
	if contentType == "" && file.Name != "" {
		contentType = sniffer.MIMEFromExtension(file.Name)
	}

	if _, ok := v.allowed[contentType]; !ok {
		shown := contentType
		if shown == "" {
			shown = "unknown"
		}
		return fail(apperr.ErrUnsupportedType, fmt.Sprintf(
			"Invalid file type: %s. Allowed types: %s", shown, v.allowedLabel()))
	}

	if v.rules.CheckExtension && file.Name != "" && !sniffer.ExtensionAllowed(file.Name) {
		return fail(apperr.ErrUnsupportedType,
			"Invalid file extension. Allowed extensions: .jpg, .jpeg, .png, .gif, .webp")
	}

	if v.rules.SniffContent && len(file.Content) > 0 && sniffed != contentType {
		actual := sniffed
		if actual == "" {
			actual = "unrecognised data"
		}
		return fail(apperr.ErrUnsupportedType, fmt.Sprintf(
			"Invalid file type: declared %s but content is %s", contentType, actual))
	}

	return Result{OK: true, ContentType: contentType}
}

// Validate is the guard form of Check.
func (v *Validator) Validate(file models.File) error {
	res := v.Check(file)
	if res.OK {
		return nil
	}
	return apperr.Validation("validate file", res.Err, res.Reason)
}

// IsValid is the predicate form of Check.
func (v *Validator) IsValid(file models.File) bool {
	return v.Check(file).OK
}

func (v *Validator) MaxFileSize() int64 {
	return v.rules.MaxBytes
}

func (v *Validator) AllowedTypes() []string {
	return append([]string(nil), v.rules.AllowedTypes...)
}

func (v *Validator) allowedLabel() string {
	labels := make([]string, 0, len(v.rules.AllowedTypes))
	for _, t := range v.rules.AllowedTypes {
		labels = append(labels, typeLabel(t))
	}
	return strings.Join(labels, ", ")
}

func typeLabel(mimeType string) string {
	switch sniffer.NormalizeMIME(mimeType) {
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/webp":
		return "WebP"
	}
	return mimeType
}

func formatMB(bytes int64) string {
	return strconv.FormatFloat(float64(bytes)/(1024*1024), 'f', -1, 64) + "MB"
}

func fail(sentinel error, reason string) Result {
	return Result{Err: sentinel, Reason: reason}
}
