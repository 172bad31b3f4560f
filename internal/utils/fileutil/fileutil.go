package fileutil

import (
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to a temporary file and then renames it to the target file.
// An existing target is replaced.
// AtomicWriteFile 将数据写入临时文件，然后将其重命名为目标文件。已存在的目标文件会被替换。
func AtomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename) // #nosec G703 // Safe: filepath.Dir cleans the path preventing traversal
	tmpFile, err := os.CreateTemp(dir, "atomic-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Chmod(perm); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpFile.Name(), filename) // #nosec G703 // filename is validated by caller
}

// EnsureDir creates dir and any missing parents. Calling it on an existing directory is a no-op.
// EnsureDir 创建目录及缺失的父目录，目录已存在时不做任何操作。
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Clean(dir), 0755)
}

// ExpandHome replaces a leading "~/" with the current user's home directory.
// ExpandHome 将开头的 "~/" 替换为当前用户的主目录。
func ExpandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
