package ticket_api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-storefront/internal/database/dbtest"
	"ms-storefront/internal/models"
	ticketdb "ms-storefront/internal/tickets/db"
	qr "ms-storefront/internal/tickets/qr_generator"
	tickets "ms-storefront/internal/tickets/service"
)

func TestTicketEndpoints(t *testing.T) {
	svc := tickets.NewTicketService(ticketdb.New(dbtest.New(t)), qr.NewQRGenerator("secret", 128), nil)
	r := chi.NewRouter()
	h := NewHandler(svc, nil)
	r.Route("/api", func(r chi.Router) {
		h.Routes(r)
		h.WriteRoutes(r)
	})
	send := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
		return rec
	}

	rec := send(http.MethodPost, "/api/tickets", `{"eventId":"e1","ticketTypeId":"tt1","ownerId":"w1","section":"A","row":"2","seat":14,"price":30}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Seat)
	assert.Equal(t, 14, *created.Seat)

	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/api/tickets", `{"eventId":"e1"}`).Code)

	rec = send(http.MethodGet, "/api/tickets/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ownerId":"w1"`)
	assert.Equal(t, http.StatusNotFound, send(http.MethodGet, "/api/tickets/nope", "").Code)

	rec = send(http.MethodGet, "/api/tickets?ownerId=w1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var owned []models.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &owned))
	assert.Len(t, owned, 1)
	assert.Equal(t, http.StatusBadRequest, send(http.MethodGet, "/api/tickets", "").Code)

	rec = send(http.MethodGet, "/api/tickets/"+created.ID+"/qr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	code, err := svc.TicketCode(context.Background(), created.ID)
	require.NoError(t, err)
	rec = send(http.MethodPost, "/api/tickets/verify", `{"code":"`+code+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var verification models.TicketVerification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verification))
	assert.True(t, verification.Valid)

	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/api/tickets/verify", `{"code":"bogus"}`).Code)
}
