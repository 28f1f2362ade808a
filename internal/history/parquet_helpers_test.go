package history

import (
	"os"

	"github.com/parquet-go/parquet-go"
)

// parquetRows reads every row of a Parquet file written by the exporter.
func parquetRows[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return parquet.Read[T](file, mustSize(file))
}

func mustSize(f *os.File) int64 {
	info, err := f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}
