package save

import (
	"io"

	"github.com/parquet-go/parquet-go"

	"iwutil/internal/fsx"
)

// Records writes typed rows to folder/name.parquet. The schema comes from
// T's `parquet` struct tags.
func Records[T any](rows []T, folder, name string) (string, error) {
	path := Path(folder, name, "parquet")
	return path, RecordsTo(rows, path)
}

// RecordsTo writes typed rows to filename as parquet.
func RecordsTo[T any](rows []T, filename string) error {
	return fsx.WriteFile(filename, func(w io.Writer) error {
		return parquet.Write(w, rows, parquet.Compression(&parquet.Snappy))
	})
}
