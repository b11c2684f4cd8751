package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/tidewaterhq/twapp/twlwa"
	"go.uber.org/zap"
)

// ItemHandlers serves the key-value item API.
type ItemHandlers struct {
	store func(ctx context.Context) *itemStore
	now   func() time.Time
}

// NewItemHandlers creates handlers backed by the deployment's table via
// the request-scoped DynamoDB client.
func NewItemHandlers() *ItemHandlers {
	return &ItemHandlers{
		store: storeFromContext,
		now:   time.Now,
	}
}

func storeFromContext(ctx context.Context) *itemStore {
	env := twlwa.Env[Env](ctx)
	return newItemStore(twlwa.AWS[dynamodb.Client](ctx), env.MainTableName, env.MainTableHashKey)
}

// itemRequest is the body for PUT and POST item calls.
type itemRequest struct {
	Data map[string]any `json:"data"`
}

// ListItems returns all items, sorted by id.
func (h *ItemHandlers) ListItems(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	items, err := h.store(ctx).list(ctx)
	if err != nil {
		return err
	}
	if items == nil {
		items = []Item{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// GetItem returns a single item by id.
func (h *ItemHandlers) GetItem(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")

	item, err := h.store(ctx).get(ctx, id)
	if errors.Is(err, errItemNotFound) {
		return writeError(w, http.StatusNotFound, "item not found")
	}
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, item)
}

// CreateItem stores a new item under a minted id and points at it via
// the Location header.
func (h *ItemHandlers) CreateItem(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid JSON body")
	}

	item := Item{
		ID:        uuid.NewString(),
		Data:      req.Data,
		UpdatedAt: h.now().UTC(),
	}
	if err := h.store(ctx).put(ctx, item); err != nil {
		return err
	}

	twlwa.Log(ctx).Info("item created", zap.String("item_id", item.ID))

	if location, err := twlwa.Reverse(ctx, "get-item", item.ID); err == nil {
		w.Header().Set("Location", location)
	}
	return writeJSON(w, http.StatusCreated, item)
}

// PutItem stores an item under the id in the path, creating or
// replacing it.
func (h *ItemHandlers) PutItem(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid JSON body")
	}

	item := Item{
		ID:        id,
		Data:      req.Data,
		UpdatedAt: h.now().UTC(),
	}
	if err := h.store(ctx).put(ctx, item); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, item)
}

// DeleteItem removes the item. Deletes are idempotent: removing an id
// the table does not hold still returns 204.
func (h *ItemHandlers) DeleteItem(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")

	if err := h.store(ctx).delete(ctx, id); err != nil {
		return err
	}

	twlwa.Log(ctx).Info("item deleted", zap.String("item_id", id))

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func writeJSON(w bhttp.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func writeError(w bhttp.ResponseWriter, status int, msg string) error {
	return writeJSON(w, status, map[string]string{"error": msg})
}
