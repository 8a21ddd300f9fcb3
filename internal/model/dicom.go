package model

import (
	"context"
	"time"
)

// DICOMStore defines persistence operations for uploaded DICOM file records.
type DICOMStore interface {
	Create(ctx context.Context, file DICOMFile) (DICOMFile, error)
	GetByID(ctx context.Context, id int64) (DICOMFile, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]DICOMFile, error)
	Delete(ctx context.Context, id int64) error
}

// DICOMFile describes one uploaded file: the original filename, the metadata
// extracted from the dataset and the owning user. OwnerID is set at creation
// and never reassigned.
type DICOMFile struct {
	ID          int64
	Filename    string
	PatientName string
	Modality    string
	StudyDate   string
	UploadedAt  time.Time
	OwnerID     int64
}

// Metadata is the triple extracted from a DICOM dataset. Fields the dataset
// lacks hold the literal "Unknown".
type Metadata struct {
	PatientName string
	Modality    string
	StudyDate   string
}

// MetadataExtractor reads descriptive fields from a DICOM file on disk.
type MetadataExtractor interface {
	Extract(path string) (Metadata, error)
}
