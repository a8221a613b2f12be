package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrLoginRequired = errors.New("login is required")
var ErrCustomerNotFound = errors.New("customer not found")
var ErrLoginExists = errors.New("login already in use")
var ErrEmailExists = errors.New("email already in use")
var ErrCustomerExists = errors.New("customer already exists")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnsupportedToken = errors.New("unsupported authentication token kind")
var ErrStorageUnavailable = errors.New("object storage unavailable")
