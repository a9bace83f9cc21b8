package controllers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"fundacion-api/models"
	"fundacion-api/store"
	"fundacion-api/utils"
)

type NewsController struct{}

const maxUploadMemory = 32 << 20 // 32 MB

// formBool reads an optional boolean form value; absent means false.
func formBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.FormValue(name))
	return err == nil && v
}

// uploadImages pushes every file under the given part name to object
// storage. On any failure the already-uploaded objects are removed so a
// half-written article never leaks images.
func uploadImages(r *http.Request, part string, room int) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[part]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > room {
		return nil, models.NewValidationError("una noticia admite máximo 5 imágenes")
	}

	urls := make([]string, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			cleanupImages(urls)
			return nil, err
		}
		url, err := utils.UploadImageToS3(file, header.Filename)
		file.Close()
		if err != nil {
			cleanupImages(urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// cleanupImages is best-effort: a failed delete leaves an orphan object,
// which is preferable to failing the caller twice.
func cleanupImages(urls []string) {
	for _, url := range urls {
		if err := utils.DeleteImageFromS3(url); err != nil {
			logrus.WithError(err).WithField("url", url).Warn("could not remove uploaded image")
		}
	}
}

func (nc NewsController) GetNews(db *sql.DB) http.HandlerFunc {
	news := store.NewNewsStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := models.NewsFilters{
			Category:  q.Get("category"),
			Important: queryBool(r, "important"),
			IsActive:  queryBool(r, "isActive"),
			Search:    q.Get("search"),
		}
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)

		list, pagination, err := news.List(r.Context(), filters, page, limit)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]any{
			"news":       list,
			"pagination": pagination,
		})
	}
}

func (nc NewsController) GetNewsByID(db *sql.DB) http.HandlerFunc {
	news := store.NewNewsStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de noticia inválido"})
			return
		}
		article, err := news.GetByID(r.Context(), id)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, article)
	}
}

func (nc NewsController) CreateNews(db *sql.DB) http.HandlerFunc {
	news := store.NewNewsStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "formulario multipart inválido"})
			return
		}

		article := models.News{
			Title:     r.FormValue("title"),
			Content:   r.FormValue("content"),
			Category:  r.MultipartForm.Value["category"],
			Important: formBool(r, "important"),
			IsActive:  formBool(r, "isActive"),
			AuthorID:  user.ID,
		}
		if err := validate.Struct(article); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{
				Message: "datos inválidos",
				Details: validationDetails(err),
			})
			return
		}

		urls, err := uploadImages(r, "images", models.MaxNewsImages)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		article.Images = urls

		created, err := news.Create(r.Context(), article)
		if err != nil {
			cleanupImages(urls)
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, created)
	}
}

func (nc NewsController) UpdateNews(db *sql.DB) http.HandlerFunc {
	news := store.NewNewsStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireAuth(w, r)
		if !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de noticia inválido"})
			return
		}
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "formulario multipart inválido"})
			return
		}

		article, err := news.GetByID(r.Context(), id)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if article.AuthorID != user.ID {
			utils.RespondError(w, models.ErrForbidden)
			return
		}

		form := r.MultipartForm
		changed := false
		if v := r.FormValue("title"); v != "" {
			article.Title, changed = v, true
		}
		if v := r.FormValue("content"); v != "" {
			article.Content, changed = v, true
		}
		if v, present := form.Value["category"]; present {
			article.Category, changed = v, true
		}
		if _, present := form.Value["important"]; present {
			article.Important, changed = formBool(r, "important"), true
		}
		if _, present := form.Value["isActive"]; present {
			article.IsActive, changed = formBool(r, "isActive"), true
		}

		// Image removals come as the URLs to drop.
		removed := map[string]bool{}
		for _, url := range form.Value["deleteImages"] {
			removed[url] = true
		}
		if len(removed) > 0 {
			kept := article.Images[:0]
			for _, url := range article.Images {
				if !removed[url] {
					kept = append(kept, url)
				}
			}
			article.Images, changed = kept, true
		}

		newURLs, err := uploadImages(r, "newImages", models.MaxNewsImages-len(article.Images))
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if len(newURLs) > 0 {
			article.Images = append(article.Images, newURLs...)
			changed = true
		}

		if !changed {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "no hay datos para actualizar"})
			return
		}
		if err := validate.Struct(article); err != nil {
			cleanupImages(newURLs)
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{
				Message: "datos inválidos",
				Details: validationDetails(err),
			})
			return
		}

		updated, err := news.Update(r.Context(), article)
		if err != nil {
			cleanupImages(newURLs)
			utils.RespondError(w, err)
			return
		}

		// Only after the row is saved do the dropped objects go away.
		for url := range removed {
			if err := utils.DeleteImageFromS3(url); err != nil {
				logrus.WithError(err).WithField("url", url).Warn("could not remove replaced image")
			}
		}
		utils.ResponseJSON(w, updated)
	}
}

func (nc NewsController) DeleteNews(db *sql.DB) http.HandlerFunc {
	news := store.NewNewsStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireAuth(w, r)
		if !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de noticia inválido"})
			return
		}

		article, err := news.GetByID(r.Context(), id)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		if article.AuthorID != user.ID {
			utils.RespondError(w, models.ErrForbidden)
			return
		}

		if err := news.Delete(r.Context(), id); err != nil {
			utils.RespondError(w, err)
			return
		}
		cleanupImages(article.Images)
		utils.ResponseJSON(w, map[string]string{"message": "noticia eliminada"})
	}
}
