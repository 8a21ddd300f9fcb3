// Package dicom extracts descriptive metadata from DICOM files.
package dicom

import (
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/medvault/dicom-server/internal/model"
)

// ValueUnknown substitutes for any field the dataset lacks.
const ValueUnknown = "Unknown"

var _ model.MetadataExtractor = (*Extractor)(nil)

// Extractor reads patient name, modality and study date from a DICOM
// file on disk. A dataset that parses but lacks a field yields "Unknown"
// for that field; a file that does not parse fails the whole extraction.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the file at path and returns the metadata triple.
func (e *Extractor) Extract(path string) (model.Metadata, error) {
	dataset, err := dicom.ParseFile(path, nil)
	if err != nil {
		return model.Metadata{}, fmt.Errorf("%w: %v", model.ErrExtractionFailed, err)
	}

	return model.Metadata{
		PatientName: stringValue(&dataset, tag.PatientName),
		Modality:    stringValue(&dataset, tag.Modality),
		StudyDate:   stringValue(&dataset, tag.StudyDate),
	}, nil
}

func stringValue(dataset *dicom.Dataset, t tag.Tag) string {
	element, err := dataset.FindElementByTag(t)
	if err != nil || element == nil {
		return ValueUnknown
	}

	values, ok := element.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return ValueUnknown
	}

	v := strings.TrimSpace(values[0])
	if v == "" {
		return ValueUnknown
	}
	return v
}
