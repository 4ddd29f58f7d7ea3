package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Registrar creates an administrator and returns a session token for it.
type Registrar interface {
	RegisterAdmin(ctx context.Context, username, email, password string) (string, error)
}

var ErrPasswordMismatch = errors.New("passwords do not match")

// CreateAdmin asks for a username, email and password (twice) and creates
// the administrator through r. The session token is written to w.
func CreateAdmin(ctx context.Context, r Registrar, in io.Reader, w io.Writer) error {
	reader := bufio.NewReader(in)

	username, err := GetSimpleText(reader, "Username", w)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(reader, "Email", w)
	if err != nil {
		return err
	}

	password, err := GetPassword(w, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword(w, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return ErrPasswordMismatch
	}

	token, err := r.RegisterAdmin(ctx, username, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("email %s is already in use: %w", email, err)
		}
		return err
	}

	fmt.Fprintf(w, "Administrator %s created\nToken: %s\n", email, token)
	return nil
}
