package app

import "github.com/google/uuid"

func newAccountID() string {
	return uuid.NewString()
}
