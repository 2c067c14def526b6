package store

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// newMock returns a driver test harness backed by a mock deployment; no
// server is contacted and every command is answered from queued responses.
func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

type fakeHasher struct {
	hashCalls int
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	h.hashCalls++
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Matches(hash, plain string) bool {
	return hash == "hashed:"+plain
}

var duplicateKey = mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}

func quietLogger() *logrus.Logger {
	return bufferLogger(io.Discard)
}

func bufferLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}
