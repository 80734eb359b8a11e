package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsteps/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestShoeHandler_List(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		query          string
		expectedFilter model.ShoeFilter
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Defaults to available",
			query:          "",
			expectedFilter: model.ShoeFilter{Status: model.ShoeAvailable},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "All statuses with filters",
			query:          "?status=all&size=9&gender=women&sport=running&limit=5&offset=10",
			expectedFilter: model.ShoeFilter{Size: "9", Gender: "women", Sport: "running", Limit: 5, Offset: 10},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Specific status",
			query:          "?status=requested",
			expectedFilter: model.ShoeFilter{Status: model.ShoeRequested},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid limit",
			query:          "?limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid offset",
			query:          "?offset=xyz",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockShoeService)
			handler := NewShoeHandler(mockService, logger)

			if tt.expectService {
				mockService.On("List", mock.Anything, tt.expectedFilter).Return([]model.Shoe{{Brand: "Nike"}}, nil)
			}

			w := httptest.NewRecorder()
			handler.List(w, httptest.NewRequest(http.MethodGet, "/api/shoes"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestShoeHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	id := uuid.New()

	tests := []struct {
		name           string
		pathID         string
		mockReturn     *model.Shoe
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{"Success", id.String(), &model.Shoe{ID: id}, nil, http.StatusOK, true},
		{"Not found", id.String(), nil, model.ErrShoeNotFound, http.StatusNotFound, true},
		{"Repository failure", id.String(), nil, errors.New("db down"), http.StatusInternalServerError, true},
		{"Invalid UUID format", "invalid-uuid", nil, nil, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockShoeService)
			handler := NewShoeHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, id).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/shoes/"+tt.pathID, nil)
			req.SetPathValue("id", tt.pathID)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestShoeHandler_AdminMutations(t *testing.T) {
	logger := zerolog.Nop()
	id := uuid.New()

	t.Run("Create", func(t *testing.T) {
		mockService := new(MockShoeService)
		handler := NewShoeHandler(mockService, logger)
		mockService.On("Create", mock.Anything, &model.ShoeInput{Brand: "Nike", Size: "9"}).
			Return(&model.Shoe{ID: id, ShoeID: 101}, nil)

		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/admin/shoes", bytes.NewBufferString(`{"brand":"Nike","size":"9"}`)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"shoeId":101`)
	})

	t.Run("Create validation error", func(t *testing.T) {
		mockService := new(MockShoeService)
		handler := NewShoeHandler(mockService, logger)
		mockService.On("Create", mock.Anything, mock.Anything).Return(nil, model.Validationf("brand is required"))

		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/admin/shoes", bytes.NewBufferString(`{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update", func(t *testing.T) {
		mockService := new(MockShoeService)
		handler := NewShoeHandler(mockService, logger)
		mockService.On("Update", mock.Anything, id, mock.AnythingOfType("*model.ShoePatch")).
			Return(&model.Shoe{ID: id, InventoryCount: 3}, nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/admin/shoes/"+id.String(), bytes.NewBufferString(`{"inventoryCount":3}`))
		req.SetPathValue("id", id.String())
		w := httptest.NewRecorder()

		handler.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Delete", func(t *testing.T) {
		mockService := new(MockShoeService)
		handler := NewShoeHandler(mockService, logger)
		mockService.On("Delete", mock.Anything, id).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/admin/shoes/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
