package media

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that are empty, nested or escape the store
var ErrInvalidName = errors.New("invalid asset name")

// Store defines the interface for saving, retrieving, and deleting media assets
type Store interface {
	// Save writes data under name inside the asset type's directory. It never
	// overwrites: an existing name is an error. Returns the number of bytes written.
	Save(assetType AssetType, name string, data io.Reader) (int64, error)
	// Open retrieves a reader for an asset
	Open(assetType AssetType, name string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes an asset; a missing asset is not an error
	Delete(assetType AssetType, name string) error
	// GetFullPath returns the absolute filesystem path for an asset
	GetFullPath(assetType AssetType, name string) (string, error)
	// EnsureDir makes sure a specific asset type directory exists
	EnsureDir(assetType AssetType) (string, error)
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath        string               // absolute path to the MEDIA_STORAGE_PATH
	resolvedPathMap map[AssetType]string // maps AssetType to full absolute path
}

// NewLocalStorage creates a new local filesystem store
func NewLocalStorage(basePath string, subDirs map[AssetType]string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	resolvedPaths := make(map[AssetType]string)
	for assetType, subDir := range subDirs {
		fullPath := filepath.Clean(filepath.Join(absBasePath, subDir))
		if !strings.HasPrefix(fullPath, absBasePath+string(filepath.Separator)) {
			return nil, fmt.Errorf("invalid subdirectory configuration: '%s' resolves outside base path '%s'", subDir, absBasePath)
		}
		resolvedPaths[assetType] = fullPath
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{
		basePath:        absBasePath,
		resolvedPathMap: resolvedPaths,
	}, nil
}

// getAssetTypeDir resolves the absolute path for a configured asset type
func (ls *LocalStorage) getAssetTypeDir(assetType AssetType) (string, error) {
	dirPath, ok := ls.resolvedPathMap[assetType]
	if !ok {
		return "", fmt.Errorf("asset type '%s' is not configured", assetType)
	}
	return dirPath, nil
}

// EnsureDir creates the directory for the asset type if it doesn't exist
func (ls *LocalStorage) EnsureDir(assetType AssetType) (string, error) {
	dirPath, err := ls.getAssetTypeDir(assetType)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure directory '%s': %w", dirPath, err)
	}
	return dirPath, nil
}

// Save writes data to a new file. O_EXCL keeps two uploads from ever sharing a file.
func (ls *LocalStorage) Save(assetType AssetType, name string, data io.Reader) (int64, error) {
	if _, err := ls.EnsureDir(assetType); err != nil {
		return 0, err
	}

	fullSavePath, err := ls.GetFullPath(assetType, name)
	if err != nil {
		return 0, err
	}

	outFile, err := os.OpenFile(fullSavePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}

	written, err := io.Copy(outFile, data)
	if err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return 0, fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(fullSavePath)
		return 0, fmt.Errorf("failed to flush '%s': %w", fullSavePath, err)
	}

	log.Printf("media.store: Saved asset to %s (%d bytes)", fullSavePath, written)
	return written, nil
}

func (ls *LocalStorage) Open(assetType AssetType, name string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.GetFullPath(assetType, name)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("asset not found at '%s': %w", name, err)
		}
		return nil, nil, fmt.Errorf("failed to open asset '%s': %w", name, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset '%s': %w", name, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, fmt.Errorf("asset '%s' is a directory: %w", name, os.ErrNotExist)
	}

	return file, info, nil
}

// Delete removes an asset file
func (ls *LocalStorage) Delete(assetType AssetType, name string) error {
	fullPath, err := ls.GetFullPath(assetType, name)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) { // Ignore "not exist" errors
		return fmt.Errorf("failed to delete asset '%s': %w", name, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted asset %s", fullPath)
	}
	return nil
}

// GetFullPath calculates the absolute path of a flat asset name and performs the security check
func (ls *LocalStorage) GetFullPath(assetType AssetType, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}

	dirPath, err := ls.getAssetTypeDir(assetType)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(dirPath, name)
	if filepath.Dir(fullPath) != dirPath {
		return "", fmt.Errorf("%w: access denied for '%s'", ErrInvalidName, name)
	}

	return fullPath, nil
}
