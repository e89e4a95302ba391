package subsonic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/logger"
)

const okPrefix = `{"subsonic-response":{"status":"ok","version":"1.16.1"`

// newTestServer serves canned bodies per endpoint and rejects requests
// whose token does not match the password "secret".
func newTestServer(t *testing.T, bodies map[string]string) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("u") != "alice" || len(q.Get("s")) != saltLength || q.Get("t") != token("secret", q.Get("s")) {
			fmt.Fprint(w, `{"subsonic-response":{"status":"failed","error":{"code":40,"message":"Wrong username or password"}}}`)
			return
		}
		if q.Get("v") != APIVersion || q.Get("c") != ClientName || q.Get("f") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body, ok := bodies[strings.TrimPrefix(r.URL.Path, "/rest/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if strings.HasPrefix(body, "{") {
			w.Header().Set("Content-Type", "application/json")
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	cfg := domain.DefaultConfig()
	cfg.BaseURL = srv.URL + "/"
	cfg.Username = "alice"
	cfg.Password = "secret"
	return srv, NewClient(logger.NewTestLogger(), cfg)
}

func TestToken(t *testing.T) {
	// md5("sesame" + "c19b2d")
	assert.Equal(t, "26719a1196d2a940705a59634eb18eab", token("sesame", "c19b2d"))
}

func TestPing(t *testing.T) {
	_, client := newTestServer(t, map[string]string{"ping": okPrefix + `}}`})
	assert.NoError(t, client.Ping(context.Background()))
}

func TestPing_WrongCredentials(t *testing.T) {
	_, client := newTestServer(t, map[string]string{"ping": okPrefix + `}}`})
	client.password = "wrong"

	err := client.Ping(context.Background())
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.APIServer, apiErr.Kind)
	assert.Equal(t, 40, apiErr.Code)
	assert.Equal(t, "Wrong username or password", apiErr.Message)
}

func TestArtists_FlattensIndex(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"getArtists": okPrefix + `,"artists":{"index":[
			{"name":"A","artist":[{"id":"1","name":"ABBA"},{"id":"2","name":"Air"}]},
			{"name":"B","artist":[{"id":"3","name":"Beck"}]}]}}}`,
	})

	artists, err := client.Artists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Artist{{ID: "1", Name: "ABBA"}, {ID: "2", Name: "Air"}, {ID: "3", Name: "Beck"}}, artists)
}

func TestAlbums(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"getArtist": okPrefix + `,"artist":{"id":"3","name":"Beck","album":[
			{"id":"a1","name":"Odelay","artistId":"3"},{"id":"a2","name":"Sea Change"}]}}}`,
	})

	name, albums, err := client.Albums(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Beck", name)
	require.Len(t, albums, 2)
	assert.Equal(t, domain.Album{ID: "a2", Name: "Sea Change", ArtistID: "3"}, albums[1])
}

func TestSongs_InheritAlbumName(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"getAlbum": okPrefix + `,"album":{"id":"a1","name":"Odelay","song":[
			{"id":"s1","title":"Devils Haircut","artist":"Beck","duration":194},
			{"id":"s2","title":"Hotwax","artist":"Beck","album":"Odelay (Deluxe)","albumId":"a9"}]}}}`,
	})

	name, songs, err := client.Songs(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Odelay", name)
	require.Len(t, songs, 2)
	assert.Equal(t, domain.Track{ID: "s1", Title: "Devils Haircut", AlbumID: "a1", Artist: "Beck", Album: "Odelay", Duration: 194 * time.Second}, songs[0])
	assert.Equal(t, "Odelay (Deluxe)", songs[1].Album)
	assert.Equal(t, "a9", songs[1].AlbumID)
}

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, okPrefix+`,"searchResult3":{
			"album":[{"id":"a1","name":"Abc","artist":"Band","artistId":"r1"}],
			"song":[{"id":"s1","title":"Abc Song","artist":"Singer","albumId":"a2","album":"Other","duration":61}]}}}`)
	}))
	defer srv.Close()

	cfg := domain.DefaultConfig()
	cfg.BaseURL = srv.URL
	client := NewClient(logger.NewTestLogger(), cfg)

	results, err := client.Search(context.Background(), "abc", domain.DefaultSearchLimits(20))
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "query=abc")
	assert.Contains(t, gotQuery, "songCount=20")
	assert.Contains(t, gotQuery, "albumCount=20")
	assert.Contains(t, gotQuery, "artistCount=20")
	assert.Equal(t, []domain.AlbumHit{{ID: "a1", Name: "Abc", Artist: "Band", ArtistID: "r1"}}, results.Albums)
	assert.Equal(t, []domain.SongHit{{ID: "s1", Title: "Abc Song", Artist: "Singer", AlbumID: "a2", Album: "Other", Duration: 61 * time.Second}}, results.Songs)
}

func TestSearch_NoResults(t *testing.T) {
	_, client := newTestServer(t, map[string]string{"search3": okPrefix + `}}`})

	results, err := client.Search(context.Background(), "zzz", domain.DefaultSearchLimits(5))
	require.NoError(t, err)
	assert.Equal(t, 0, results.Len())
}

func TestCall_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind domain.APIErrorKind
		msg  string
	}{
		{"malformed json", `{not json`, domain.APIProtocol, "invalid response format"},
		{"missing envelope", `{"other":{}}`, domain.APIProtocol, "missing subsonic-response"},
		{"failed without message", `{"subsonic-response":{"status":"failed"}}`, domain.APIServer, "Unknown error"},
		{"missing payload", okPrefix + `}}`, domain.APIProtocol, "missing artists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			cfg := domain.DefaultConfig()
			cfg.BaseURL = srv.URL
			_, err := NewClient(logger.NewTestLogger(), cfg).Artists(context.Background())

			var apiErr *domain.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.msg, apiErr.Message)
		})
	}
}

func TestCall_HTTPStatus(t *testing.T) {
	_, client := newTestServer(t, map[string]string{})

	_, err := client.Artists(context.Background())
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.APIConnectivity, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
}

func TestCall_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := domain.DefaultConfig()
	cfg.BaseURL = url
	err := NewClient(logger.NewTestLogger(), cfg).Ping(context.Background())

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.APIConnectivity, apiErr.Kind)
}

func TestStreamURL(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.BaseURL = "https://music.example.com/"
	cfg.Username = "alice"
	client := NewClient(logger.NewTestLogger(), cfg)

	u, err := client.StreamURL("s1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://music.example.com/rest/stream?"))
	assert.Contains(t, u, "id=s1")
	assert.Contains(t, u, "u=alice")
	assert.Contains(t, u, "format=mp3")

	_, err = client.StreamURL("")
	assert.Error(t, err)
}

func TestFetchStream(t *testing.T) {
	_, client := newTestServer(t, map[string]string{"stream": "ID3-audio-bytes"})

	u, err := client.StreamURL("s1")
	require.NoError(t, err)

	data, err := client.FetchStream(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-audio-bytes"), data)
}

func TestFetchStream_JSONError(t *testing.T) {
	_, client := newTestServer(t, map[string]string{
		"stream": `{"subsonic-response":{"status":"failed","error":{"code":70,"message":"Song not found"}}}`,
	})

	u, err := client.StreamURL("missing")
	require.NoError(t, err)

	_, err = client.FetchStream(context.Background(), u)
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.APIServer, apiErr.Kind)
	assert.Equal(t, "Song not found", apiErr.Message)
}

func TestCall_ContextCancelled(t *testing.T) {
	_, client := newTestServer(t, map[string]string{"ping": okPrefix + `}}`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Ping(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// newSlowStreamServer sends half the body, stalls for pause, then sends the rest.
func newSlowStreamServer(t *testing.T, pause time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "first-half-")
		w.(http.Flusher).Flush()
		select {
		case <-time.After(pause):
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, "second-half")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchStream_OutlastsRequestTimeout(t *testing.T) {
	srv := newSlowStreamServer(t, 150*time.Millisecond)
	cfg := domain.DefaultConfig()
	cfg.BaseURL = srv.URL
	client := NewClient(logger.NewTestLogger(), cfg)
	client.http.Timeout = 50 * time.Millisecond

	data, err := client.FetchStream(context.Background(), srv.URL+"/rest/stream?id=s1")
	require.NoError(t, err)
	assert.Equal(t, "first-half-second-half", string(data))

	// API calls still honour the request timeout.
	assert.Error(t, client.Ping(context.Background()))
}

func TestFetchStream_BoundByContext(t *testing.T) {
	srv := newSlowStreamServer(t, time.Second)
	cfg := domain.DefaultConfig()
	cfg.BaseURL = srv.URL
	client := NewClient(logger.NewTestLogger(), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchStream(ctx, srv.URL+"/rest/stream?id=s1")
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.APIConnectivity, apiErr.Kind)
}
