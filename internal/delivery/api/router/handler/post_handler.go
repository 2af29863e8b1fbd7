package handler

import (
	"net/http"
	"time"

	"miniblog/internal/delivery/api/response"
	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createPostRequest struct {
	Title   string `json:"title" validate:"required,max=120"`
	Content string `json:"content" validate:"required"`
}

type updatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=120"`
	Content *string `json:"content"`
}

type postResponse struct {
	ID          uuid.UUID         `json:"id"`
	AuthorID    uuid.UUID         `json:"authorId"`
	Author      *authorResponse   `json:"author,omitempty"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Status      entity.PostStatus `json:"status"`
	Slug        *string           `json:"slug"`
	PublishedAt *time.Time        `json:"publishedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type authorResponse struct {
	DisplayName string `json:"displayName"`
}

func newPostResponse(post *entity.Post) postResponse {
	resp := postResponse{
		ID:          post.ID,
		AuthorID:    post.AuthorID,
		Title:       post.Title,
		Content:     post.Content,
		Status:      post.Status,
		Slug:        post.Slug,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	if post.AuthorName != "" {
		resp.Author = &authorResponse{DisplayName: post.AuthorName}
	}

	return resp
}

func newPostListResponse(posts []*entity.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostResponse(p))
	}

	return out
}

// PostHandler holds dependencies for post-related handlers.
type PostHandler struct {
	uc usecase.PostUsecase
}

// NewPostHandler is the constructor for PostHandler, injected by Fx.
func NewPostHandler(uc usecase.PostUsecase) *PostHandler {
	return &PostHandler{uc: uc}
}

func (h *PostHandler) Create(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.uc.Create(c.Request().Context(), identity, usecase.CreatePostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newPostResponse(post))
}

func (h *PostHandler) Update(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.uc.Update(c.Request().Context(), identity, postID, usecase.UpdatePostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostResponse(post))
}

func (h *PostHandler) Delete(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), identity, postID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *PostHandler) Publish(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	post, err := h.uc.Publish(c.Request().Context(), identity, postID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostResponse(post))
}

func (h *PostHandler) ListMine(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	posts, err := h.uc.ListMine(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostListResponse(posts))
}

func (h *PostHandler) GetMine(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	post, err := h.uc.GetMine(c.Request().Context(), identity, postID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostResponse(post))
}

// ListPublished is the public feed.
func (h *PostHandler) ListPublished(c echo.Context) error {
	posts, err := h.uc.ListPublished(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostListResponse(posts))
}

func (h *PostHandler) GetPublished(c echo.Context) error {
	post, err := h.uc.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPostResponse(post))
}

// postIDParam parses the :id path segment. Malformed ids cannot name a post.
func postIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrPostNotFound
	}

	return id, nil
}
