package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medvault/dicom-server/internal/model"
)

var _ model.DICOMStore = (*DICOMRepository)(nil)

type DICOMRepository struct {
	db *Connection
}

func NewDICOMRepository(db *Connection) *DICOMRepository {
	return &DICOMRepository{
		db: db,
	}
}

func (r *DICOMRepository) Create(ctx context.Context, file model.DICOMFile) (model.DICOMFile, error) {
	query := `INSERT INTO dicom_files (filename, patient_name, modality, study_date, owner_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, filename, patient_name, modality, study_date, uploaded_at, owner_id`

	var saved model.DICOMFile
	err := r.db.QueryRow(ctx, query,
		file.Filename, file.PatientName, file.Modality, file.StudyDate, file.OwnerID,
	).Scan(
		&saved.ID, &saved.Filename, &saved.PatientName, &saved.Modality,
		&saved.StudyDate, &saved.UploadedAt, &saved.OwnerID,
	)
	if err != nil {
		return model.DICOMFile{}, fmt.Errorf("failed to create dicom record: %w", err)
	}

	return saved, nil
}

func (r *DICOMRepository) GetByID(ctx context.Context, id int64) (model.DICOMFile, error) {
	query := `SELECT id, filename, patient_name, modality, study_date, uploaded_at, owner_id
			  FROM dicom_files WHERE id = $1`

	var file model.DICOMFile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID, &file.Filename, &file.PatientName, &file.Modality,
		&file.StudyDate, &file.UploadedAt, &file.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DICOMFile{}, model.ErrNotFound
		}
		return model.DICOMFile{}, fmt.Errorf("failed to get dicom record by id: %w", err)
	}

	return file, nil
}

func (r *DICOMRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]model.DICOMFile, error) {
	query := `SELECT id, filename, patient_name, modality, study_date, uploaded_at, owner_id
			  FROM dicom_files WHERE owner_id = $1
			  ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dicom records: %w", err)
	}
	defer rows.Close()

	var files []model.DICOMFile
	for rows.Next() {
		var file model.DICOMFile
		err := rows.Scan(
			&file.ID, &file.Filename, &file.PatientName, &file.Modality,
			&file.StudyDate, &file.UploadedAt, &file.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dicom record: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dicom records: %w", err)
	}

	return files, nil
}

func (r *DICOMRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM dicom_files WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete dicom record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
