package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/htol/libapi/model"
	"github.com/htol/libapi/repo"
	"github.com/htol/libapi/service"
	"github.com/htol/libapi/validator"
)

type bookResponse struct {
	Message string      `json:"message"`
	Book    *model.Book `json:"book"`
}

type memberResponse struct {
	Message string        `json:"message"`
	Member  *model.Member `json:"member"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type searchResponse struct {
	Count int          `json:"count"`
	Books []model.Book `json:"books"`
}

// bookID reads the {id} path segment; anything but an integer cannot name a book
func bookID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func createBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := decodePayload(w, r)
		if err != nil {
			respondWithDecodeError(w, r, err)
			return
		}

		in, err := validator.ValidateBookData(data)
		if err != nil {
			respondWithValidationError(w, r, titleValidation, err.Error())
			return
		}

		book, err := svc.CreateBook(r.Context(), in)
		if err != nil {
			respondWithError(w, r, "Failed to create book", err, http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusCreated, bookResponse{Message: "Book created successfully", Book: book})
	})
}

func updateBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookID(r)
		if !ok {
			respondWithError(w, r, "Book not found", repo.ErrNotFound, http.StatusNotFound)
			return
		}

		data, err := decodePayload(w, r)
		if err != nil {
			respondWithDecodeError(w, r, err)
			return
		}
		if data == nil {
			respondWithValidationError(w, r, titleValidation, "No data provided")
			return
		}

		patch, err := validator.ValidateBookPatch(data)
		if err != nil {
			respondWithValidationError(w, r, titleValidation, err.Error())
			return
		}

		book, err := svc.UpdateBook(r.Context(), id, patch)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				respondWithError(w, r, "Book not found", err, http.StatusNotFound)
			} else {
				respondWithError(w, r, "Failed to update book", err, http.StatusInternalServerError)
			}
			return
		}
		respondJSON(w, http.StatusOK, bookResponse{Message: "Book updated successfully", Book: book})
	})
}

func deleteBookHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookID(r)
		if !ok {
			respondWithError(w, r, "Book not found", repo.ErrNotFound, http.StatusNotFound)
			return
		}

		if err := svc.DeleteBook(r.Context(), id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				respondWithError(w, r, "Book not found", err, http.StatusNotFound)
			} else {
				respondWithError(w, r, "Failed to delete book", err, http.StatusInternalServerError)
			}
			return
		}
		respondJSON(w, http.StatusOK, messageResponse{Message: "Book deleted successfully"})
	})
}

func createMemberHandler(svc *service.Service, strict bool) http.Handler {
	check := validator.RequireMemberFields
	if strict {
		check = validator.ValidateMemberData
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := decodePayload(w, r)
		if err != nil {
			respondWithDecodeError(w, r, err)
			return
		}

		in, err := check(data)
		if err != nil {
			respondWithValidationError(w, r, titleValidation, err.Error())
			return
		}

		member, err := svc.CreateMember(r.Context(), in)
		if err != nil {
			respondWithError(w, r, "Failed to create member", err, http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusCreated, memberResponse{Message: "Member created successfully", Member: member})
	})
}

func searchBooksHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, err := validator.ValidateSearchParams(r.URL.Query().Get("title"), r.URL.Query().Get("author"))
		if err != nil {
			respondWithValidationError(w, r, titleBadRequest, err.Error())
			return
		}

		books, err := svc.SearchBooks(r.Context(), q)
		if err != nil {
			respondWithError(w, r, "Failed to search books", err, http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, searchResponse{Count: len(books), Books: books})
	})
}

func listBooksHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := validator.ValidatePaginationParams(r.URL.Query().Get("page"), r.URL.Query().Get("per_page"))
		if err != nil {
			respondWithValidationError(w, r, titleBadRequest, err.Error())
			return
		}

		page, err := svc.ListBooks(r.Context(), p)
		if err != nil {
			respondWithError(w, r, "Failed to list books", err, http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, page)
	})
}

func healthCheckHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Check service health (database connection via service layer)
		if err := svc.Ping(r.Context()); err != nil {
			respondWithError(w, r, "service unavailable", err, http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, "Resource not found", nil, http.StatusNotFound)
	})
}

func methodNotAllowedHandler(allow string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		respondWithError(w, r, r.Method+" is not supported for "+r.URL.Path, nil, http.StatusMethodNotAllowed)
	})
}

// bookItemMethodNotAllowed covers /books/{id}, which also matches /books/search
func bookItemMethodNotAllowed() http.Handler {
	item := methodNotAllowedHandler("PUT, DELETE")
	search := methodNotAllowedHandler("GET, HEAD")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "search" {
			search.ServeHTTP(w, r)
			return
		}
		item.ServeHTTP(w, r)
	})
}
