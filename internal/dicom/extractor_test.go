package dicom

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	realdicom "github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/medvault/dicom-server/internal/model"
)

// writeDataset writes a parseable DICOM file containing the file-meta
// elements plus the given dataset elements and returns its path.
func writeDataset(t *testing.T, elements []*realdicom.Element) string {
	t.Helper()

	meta := []struct {
		tag   tag.Tag
		value []string
	}{
		{tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.7"}},
		{tag.MediaStorageSOPInstanceUID, []string{"1.2.3.4.5.6.7.8.9"}},
		{tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}},
	}
	dataset := realdicom.Dataset{}
	for _, m := range meta {
		element, err := realdicom.NewElement(m.tag, m.value)
		require.NoError(t, err)
		dataset.Elements = append(dataset.Elements, element)
	}
	dataset.Elements = append(dataset.Elements, elements...)

	path := filepath.Join(t.TempDir(), "dataset.dcm")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, realdicom.Write(f, dataset))
	require.NoError(t, f.Close())

	return path
}

func mustElement(t *testing.T, tg tag.Tag, values []string) *realdicom.Element {
	t.Helper()
	element, err := realdicom.NewElement(tg, values)
	require.NoError(t, err)
	return element
}

func TestExtractor_AllFieldsPresent(t *testing.T) {
	path := writeDataset(t, []*realdicom.Element{
		mustElement(t, tag.PatientName, []string{"Doe^Jane"}),
		mustElement(t, tag.Modality, []string{"CT"}),
		mustElement(t, tag.StudyDate, []string{"20240115"}),
	})

	metadata, err := NewExtractor().Extract(path)
	require.NoError(t, err)
	require.Equal(t, "Doe^Jane", metadata.PatientName)
	require.Equal(t, "CT", metadata.Modality)
	require.Equal(t, "20240115", metadata.StudyDate)
}

func TestExtractor_MissingFieldsDefaultToUnknown(t *testing.T) {
	// Only Modality is present; the other two fields of the triple must
	// come back as the literal substitute, not as an error.
	path := writeDataset(t, []*realdicom.Element{
		mustElement(t, tag.Modality, []string{"CT"}),
	})

	metadata, err := NewExtractor().Extract(path)
	require.NoError(t, err)
	require.Equal(t, "CT", metadata.Modality)
	require.Equal(t, ValueUnknown, metadata.PatientName)
	require.Equal(t, ValueUnknown, metadata.StudyDate)
}

func TestExtractor_UnreadableFile(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(filepath.Join(t.TempDir(), "does-not-exist.dcm"))
	require.Error(t, err)
	require.ErrorIs(t, err, model.ErrExtractionFailed)
}

func TestExtractor_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.dcm")
	require.NoError(t, os.WriteFile(path, []byte("this is not a dicom file"), 0o600))

	e := NewExtractor()

	_, err := e.Extract(path)
	require.Error(t, err)
	require.ErrorIs(t, err, model.ErrExtractionFailed)

	// The sentinel must survive wrapping so the handler edge can map it.
	require.True(t, errors.Is(err, model.ErrExtractionFailed))
}
