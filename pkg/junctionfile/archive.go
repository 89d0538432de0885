package junctionfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
)

// Archive entry names.
const (
	ArchiveDesign = "design.yaml"
	ArchiveJSON   = "design.json"
)

// WriteArchiveFile writes a design to a .jct archive.
func WriteArchiveFile(path string, d *Design, extras map[string][]byte) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteArchive(file, d, extras)
}

// WriteArchive writes a design as a zip archive holding design.yaml plus
// any extra entries (rendered drawings, notes), in name order.
func WriteArchive(w io.Writer, d *Design, extras map[string][]byte) error {
	zw := zip.NewWriter(w)

	data, err := ToYAML(d)
	if err != nil {
		return fmt.Errorf("encode design: %w", err)
	}
	if err := writeEntry(zw, ArchiveDesign, data); err != nil {
		return err
	}

	names := make([]string, 0, len(extras))
	for name := range extras {
		if name == ArchiveDesign || name == ArchiveJSON {
			return fmt.Errorf("archive entry %s is reserved", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeEntry(zw, name, extras[name]); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	ew, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := ew.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ReadArchiveFile reads a design from a .jct archive.
func ReadArchiveFile(path string) (*Design, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	return ReadArchive(file, info.Size())
}

// ReadArchiveBytes reads a design from archive bytes.
func ReadArchiveBytes(data []byte) (*Design, error) {
	return ReadArchive(bytes.NewReader(data), int64(len(data)))
}

// ReadArchive reads a design from a zip archive. design.yaml is preferred;
// design.json is accepted.
func ReadArchive(r io.ReaderAt, size int64) (*Design, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var yamlFile, jsonFile *zip.File
	for _, f := range zr.File {
		switch path.Base(f.Name) {
		case ArchiveDesign:
			yamlFile = f
		case ArchiveJSON:
			jsonFile = f
		}
	}

	switch {
	case yamlFile != nil:
		data, err := readEntry(yamlFile)
		if err != nil {
			return nil, err
		}
		return ParseYAML(data)
	case jsonFile != nil:
		data, err := readEntry(jsonFile)
		if err != nil {
			return nil, err
		}
		return ParseJSON(data)
	}
	return nil, fmt.Errorf("archive has no %s or %s", ArchiveDesign, ArchiveJSON)
}

// ArchiveEntries lists the entry names of an archive.
func ArchiveEntries(r io.ReaderAt, size int64) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
