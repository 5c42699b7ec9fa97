package errors

func InvalidPath(err error, path string) error {
	return newError(ErrInvalidPath, err, "invalid path '%s' detected", path)
}

func NotFound(err error, path string) error {
	return newError(ErrNotExist, err, "'%s' does not exist", path)
}

func PermissionDenied(err error, path string) error {
	return newError(ErrPermission, err, "access to '%s' denied", path)
}

func QuotaExceeded(err error, path string, projected, limit int64) error {
	return newError(ErrQuotaExceeded, err, "writing '%s' needs %d bytes, limit is %d", path, projected, limit)
}

func NotInitialized(op string) error {
	return newError(ErrNotInitialized, nil, "cannot %s before init", op)
}

func IsDirectory(path string) error {
	return newError(ErrIsDirectory, nil, "'%s' is a directory", path)
}

func NotDirectory(path string) error {
	return newError(ErrNotDirectory, nil, "'%s' is not a directory", path)
}

func DirectoryNotEmpty(path string) error {
	return newError(ErrDirectoryNotEmpty, nil, "directory '%s' is not empty", path)
}

func ReadOnly(path string) error {
	return newError(ErrReadOnly, nil, "'%s' is on a read-only mount", path)
}
