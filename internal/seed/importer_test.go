package seed_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/seed"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
)

const usersJSON = `{"users":[
 {"id":1,"firstName":"Emily","lastName":"Johnson","gender":"female","email":"emily.johnson@x.dummyjson.com",
  "hair":{"color":"Brown","type":"Curly"},
  "address":{"address":"626 Main Street","city":"Phoenix","state":"Mississippi","stateCode":"MS","postalCode":"29112","coordinates":{"lat":-77.16,"lng":-92.08},"country":"United States"},
  "company":{"department":"Engineering","name":"Dooley, Kozey and Cronin","title":"Sales Manager","address":{"address":"263 Tenth Street","city":"San Francisco","state":"Wisconsin","stateCode":"WI","postalCode":"37657","coordinates":{"lat":71.81,"lng":-161.69},"country":"United States"}},
  "bank":{"cardExpire":"03/26","cardNumber":"9289760655481815","cardType":"Elo","currency":"CNY","iban":"YPUXISOBI7TTHPK2BR3HAIXL"},
  "crypto":{"coin":"Bitcoin","wallet":"0xb9fc2fe63b2a6c003f1c324c3bfa53259162181a","network":"Ethereum (ERC20)"}},
 {"id":2,"firstName":"Michael","lastName":"Williams","gender":"male"}
],"total":2,"skip":0,"limit":1000}`

const todosJSON = `{"todos":[
 {"id":1,"todo":"Do something nice for someone you care about","completed":false,"userId":1},
 {"id":2,"todo":"Memorize a poem","completed":true,"userId":2},
 {"id":3,"todo":"Watch a classic movie","completed":false,"userId":99}
],"total":3,"skip":0,"limit":1000}`

// dummyServer serves fixed users and todos.  failTodos makes the todo
// endpoint answer 503.
func dummyServer(t *testing.T, failTodos bool) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.URL.Query().Get("limit"); got != "1000" {
			t.Errorf("expected limit=1000, got %q", got)
		}
		switch r.URL.Path {
		case "/users":
			fmt.Fprint(w, usersJSON)
		case "/todos":
			if failTodos {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, todosJSON)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestImportFlattensUsersAndSkipsOrphans(t *testing.T) {
	srv, _ := dummyServer(t, false)
	st := store.NewInMemoryStore()
	im := &seed.Importer{Store: st, Source: seed.NewDummyJSON(srv.URL)}
	ctx := context.Background()

	res, err := im.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Skipped || res.Users != 2 || res.Todos != 2 || res.Orphans != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	u, err := st.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.HairColor != "Brown" || u.City != "Phoenix" || u.CompanyName != "Dooley, Kozey and Cronin" || u.CompanyCity != "San Francisco" {
		t.Fatalf("expected flattened address and company, got %+v", u)
	}
	bank, ok := u.ParseBank()
	if !ok || bank.IBAN != "YPUXISOBI7TTHPK2BR3HAIXL" {
		t.Fatalf("expected bank blob, got %v %v", bank, ok)
	}
	if c, ok := u.ParseCrypto(); !ok || c.Coin != "Bitcoin" {
		t.Fatalf("expected crypto blob")
	}

	u2, err := st.GetUser(ctx, 2)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u2.BankJSON != nil || u2.CryptoJSON != nil {
		t.Fatalf("expected no blobs for user without bank or crypto")
	}

	if n, _ := st.CountTodos(ctx); n != 2 {
		t.Fatalf("expected 2 todos stored, got %d", n)
	}
}

func TestImportIsNoOpOnSeededStore(t *testing.T) {
	srv, hits := dummyServer(t, false)
	st := store.NewInMemoryStore()
	im := &seed.Importer{Store: st, Source: seed.NewDummyJSON(srv.URL)}

	if _, err := im.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	before := hits.Load()

	res, err := im.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !res.Skipped {
		t.Fatalf("expected second run to be skipped")
	}
	if hits.Load() != before {
		t.Fatalf("expected no fetches on a seeded store")
	}
}

func TestImportFetchFailureWritesNothing(t *testing.T) {
	srv, _ := dummyServer(t, true)
	st := store.NewInMemoryStore()
	im := &seed.Importer{Store: st, Source: seed.NewDummyJSON(srv.URL)}

	_, err := im.Run(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "Service Unavailable") {
		t.Fatalf("expected status text in error, got %v", err)
	}
	if n, _ := st.CountUsers(context.Background()); n != 0 {
		t.Fatalf("expected no users written, got %d", n)
	}
}
