package memstore_test

import (
	"testing"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/sessions/memstore"
	"github.com/jrsteele09/go-agri-dashboard/sessions/storetest"
)

func TestMemStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) sessions.Store {
		return memstore.New()
	})
}
