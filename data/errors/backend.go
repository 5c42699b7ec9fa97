package errors

func MountFailed(err error, namespace string) error {
	return newError(ErrMountFailed, err, "mounting namespace '%s' failed", namespace)
}

func NamespaceNotMounted(err error, namespace string) error {
	return newError(ErrNotMounted, err, "namespace '%s' not mounted", namespace)
}

func NamespaceAlreadyMounted(err error, namespace string) error {
	return newError(ErrAlreadyMounted, err, "namespace '%s' already mounted", namespace)
}

func IO(err error, op, key string) error {
	return newError(ErrIO, err, "%s '%s' failed", op, key)
}

func InvalidConfig(err error) error {
	return newError(ErrInvalidConfig, err, "configuration rejected")
}
