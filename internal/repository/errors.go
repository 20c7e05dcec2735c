package repository

import "errors"

var (
	// ErrPageMismatch means the loaded headline no longer matches the search
	// term: the site redirected past the last results page.
	ErrPageMismatch = errors.New("page headline does not match search term")
	// ErrBrowserGone means the browser process or tab disappeared.
	ErrBrowserGone = errors.New("browser session is gone")
	// ErrBrowserNotFound means no usable browser executable was located.
	ErrBrowserNotFound = errors.New("browser executable not found")
	// ErrLocationSetup means the delivery location could not be set.
	ErrLocationSetup = errors.New("location setup failed")
	// ErrEmptyShoppingList means there is nothing to search for.
	ErrEmptyShoppingList = errors.New("shopping list is empty")
	// ErrNotFound is returned by stores when a key does not exist.
	ErrNotFound = errors.New("not found")
)
