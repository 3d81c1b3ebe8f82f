package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Pack zips a package tree into the EPUB file at epubPath. The mimetype
// entry goes first and uncompressed, as the container format requires;
// everything else is deflated. The tree is left in place.
func Pack(root, epubPath string) error {
	zipFile, err := os.Create(epubPath)
	if err != nil {
		return fmt.Errorf("failed to create epub file: %v", err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	if err := addStringToZip(zipWriter, MimetypeFile, MimetypeContent, zip.Store); err != nil {
		return fmt.Errorf("failed to write mimetype entry: %v", err)
	}
	if err := addDirContentToZip(zipWriter, root, zip.Deflate); err != nil {
		return fmt.Errorf("failed to add package tree: %v", err)
	}
	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish epub file: %v", err)
	}
	return nil
}

func addStringToZip(zipWriter *zip.Writer, relPath, content string, method uint16) error {
	header := &zip.FileHeader{
		Name:   relPath,
		Method: method,
	}
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = writer.Write([]byte(content))
	return err
}

func addDirContentToZip(zipWriter *zip.Writer, dirPath string, method uint16) error {
	return filepath.Walk(dirPath, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dirPath, filePath)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		// already written as the first entry
		if relPath == MimetypeFile {
			return nil
		}

		file, err := os.Open(filePath)
		if err != nil {
			return err
		}
		defer file.Close()

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = relPath
		header.Method = method

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return err
		}

		_, err = io.Copy(writer, file)
		return err
	})
}
