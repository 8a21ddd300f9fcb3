package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/medvault/dicom-server/internal/logger"
	"github.com/medvault/dicom-server/internal/model"
)

// UploadParams contains parameters to upload a DICOM file.
type UploadParams struct {
	OwnerID  int64
	Filename string
	Data     io.Reader
}

// DICOM orchestrates the lifecycle of uploaded files: upload, list, get,
// download and delete, always scoped to the owning user. It holds no state
// of its own.
type DICOM struct {
	dicomStore model.DICOMStore
	storage    model.Storage
	extractor  model.MetadataExtractor
	logger     *logger.Logger
}

func NewDICOM(
	dicomStore model.DICOMStore,
	storage model.Storage,
	extractor model.MetadataExtractor,
	logger *logger.Logger,
) *DICOM {
	return &DICOM{
		dicomStore: dicomStore,
		storage:    storage,
		extractor:  extractor,
		logger:     logger,
	}
}

// objectKey addresses file bytes by record id, not by the user-supplied
// filename, so identical filenames can never collide.
func objectKey(id int64) string {
	return fmt.Sprintf("dicoms/%d", id)
}

// Upload spools the bytes to a scratch file, extracts metadata, creates the
// database record and stores the bytes under the record's id. A failed
// extraction aborts the upload and leaves nothing behind; a failed object
// write removes the just-created record again.
func (s *DICOM) Upload(ctx context.Context, params UploadParams) (model.DICOMFile, error) {
	scratchPath := filepath.Join(os.TempDir(), "dicom-upload-"+uuid.NewString())

	size, err := spool(scratchPath, params.Data)
	if err != nil {
		return model.DICOMFile{}, fmt.Errorf("failed to spool upload: %w", err)
	}
	defer os.Remove(scratchPath)

	metadata, err := s.extractor.Extract(scratchPath)
	if err != nil {
		s.logger.Error("DICOM service: metadata extraction failed",
			"filename", params.Filename,
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.DICOMFile{}, err
	}

	file, err := s.dicomStore.Create(ctx, model.DICOMFile{
		Filename:    params.Filename,
		PatientName: metadata.PatientName,
		Modality:    metadata.Modality,
		StudyDate:   metadata.StudyDate,
		OwnerID:     params.OwnerID,
	})
	if err != nil {
		return model.DICOMFile{}, fmt.Errorf("failed to create dicom record: %w", err)
	}

	scratch, err := os.Open(scratchPath)
	if err != nil {
		s.compensateCreate(ctx, file.ID)
		return model.DICOMFile{}, fmt.Errorf("failed to reopen spooled upload: %w", err)
	}
	defer scratch.Close()

	if err := s.storage.Put(ctx, objectKey(file.ID), scratch, size); err != nil {
		s.compensateCreate(ctx, file.ID)
		return model.DICOMFile{}, fmt.Errorf("failed to store file bytes: %w", err)
	}

	s.logger.Info("DICOM service: upload completed",
		"dicom_id", file.ID,
		"owner_id", file.OwnerID,
		"filename", file.Filename)

	return file, nil
}

// List returns all records owned by ownerID in insertion order.
func (s *DICOM) List(ctx context.Context, ownerID int64) ([]model.DICOMFile, error) {
	files, err := s.dicomStore.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dicom records: %w", err)
	}
	return files, nil
}

// Get fetches a record by id. A record that does not exist and a record
// owned by someone else fail identically with ErrNotFound.
func (s *DICOM) Get(ctx context.Context, ownerID, id int64) (model.DICOMFile, error) {
	file, err := s.dicomStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.DICOMFile{}, model.ErrNotFound
	}
	if err != nil {
		return model.DICOMFile{}, fmt.Errorf("failed to get dicom record: %w", err)
	}

	if file.OwnerID != ownerID {
		return model.DICOMFile{}, model.ErrNotFound
	}

	return file, nil
}

// Download returns the record and a reader over its stored bytes. A record
// whose backing object is gone fails with ErrFileMissing so drift between
// database and object store stays observable.
func (s *DICOM) Download(ctx context.Context, ownerID, id int64) (model.DICOMFile, io.ReadCloser, error) {
	file, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return model.DICOMFile{}, nil, err
	}

	key := objectKey(file.ID)

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return model.DICOMFile{}, nil, fmt.Errorf("failed to check file bytes: %w", err)
	}
	if !exists {
		s.logger.Error("DICOM service: record has no backing object",
			"dicom_id", file.ID)
		return model.DICOMFile{}, nil, model.ErrFileMissing
	}

	reader, err := s.storage.Get(ctx, key)
	if err != nil {
		return model.DICOMFile{}, nil, fmt.Errorf("failed to open file bytes: %w", err)
	}

	return file, reader, nil
}

// Delete removes the stored bytes and then the record. Object removal
// tolerates an already-absent object; any other storage failure aborts the
// operation before the record is touched.
func (s *DICOM) Delete(ctx context.Context, ownerID, id int64) error {
	file, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, objectKey(file.ID)); err != nil {
		s.logger.Error("DICOM service: failed to remove file bytes",
			"dicom_id", file.ID,
			"error", err.Error())
		return fmt.Errorf("%w: %v", model.ErrDeletionFailed, err)
	}

	if err := s.dicomStore.Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete dicom record: %w", err)
	}

	s.logger.Info("DICOM service: record deleted",
		"dicom_id", file.ID,
		"owner_id", ownerID)

	return nil
}

func (s *DICOM) compensateCreate(ctx context.Context, id int64) {
	if err := s.dicomStore.Delete(ctx, id); err != nil {
		s.logger.Error("DICOM service: failed to remove record after storage failure",
			"dicom_id", id,
			"error", err.Error())
	}
}

func spool(path string, data io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(f, data)
	if err != nil {
		f.Close()
		os.Remove(path)
		return 0, err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, err
	}

	return size, nil
}
