package admin

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrar struct {
	username, email, password string
	err                       error
}

func (f *fakeRegistrar) RegisterAdmin(_ context.Context, username, email, password string) (string, error) {
	f.username, f.email, f.password = username, email, password
	if f.err != nil {
		return "", f.err
	}
	return "tok", nil
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	i := 0
	readPassword = func(int) ([]byte, error) {
		if i >= len(pws) {
			return nil, errors.New("no more input")
		}
		p := []byte(pws[i])
		i++
		return p, nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func TestCreateAdmin_Success(t *testing.T) {
	stubPasswords(t, "pw123", "pw123")
	r := &fakeRegistrar{}
	var out bytes.Buffer

	err := CreateAdmin(context.Background(), r, strings.NewReader(" root \nroot@x.com\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "root", r.username)
	assert.Equal(t, "root@x.com", r.email)
	assert.Equal(t, "pw123", r.password)
	assert.Contains(t, out.String(), "Token: tok")
}

func TestCreateAdmin_Mismatch(t *testing.T) {
	stubPasswords(t, "pw123", "other")
	r := &fakeRegistrar{}

	err := CreateAdmin(context.Background(), r, strings.NewReader("root\nroot@x.com\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, r.email)
}

func TestCreateAdmin_AlreadyExists(t *testing.T) {
	stubPasswords(t, "pw", "pw")
	r := &fakeRegistrar{err: common.ErrorAlreadyExists}

	err := CreateAdmin(context.Background(), r, strings.NewReader("root\nroot@x.com"), &bytes.Buffer{})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.ErrorContains(t, err, "root@x.com")
}

func TestCreateAdmin_NoInput(t *testing.T) {
	err := CreateAdmin(context.Background(), &fakeRegistrar{}, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestGetPassword_Error(t *testing.T) {
	stubPasswords(t)
	_, err := GetPassword(&bytes.Buffer{}, "Password")
	assert.Error(t, err)
}
