package services

import (
	"errors"
	"sort"
	"strconv"

	"excelytics_backend/internal/googleauth"
	"excelytics_backend/internal/models"
	"excelytics_backend/internal/repositories"
)

// Фейки репозиториев: in-memory вместо БД, семантика ошибок
// совпадает с gorm-реализациями.

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if _, err := r.FindByEmail(user.Email); err == nil {
		return repositories.ErrUserAlreadyExists
	}
	r.nextID++
	user.ID = "user-" + strconv.Itoa(r.nextID)
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(userID string) error {
	if _, ok := r.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) FindAll() ([]models.User, error) {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.users[id])
	}
	return out, nil
}

type fakeUploadRepo struct {
	uploads map[string]*models.Upload
	users   *fakeUserRepo
	nextID  int
	failAll bool
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: map[string]*models.Upload{}}
}

var errFakeRepo = errors.New("storage failure")

func (r *fakeUploadRepo) Create(upload *models.Upload) error {
	if r.failAll {
		return errFakeRepo
	}
	r.nextID++
	upload.ID = "upload-" + strconv.Itoa(r.nextID)
	copied := *upload
	r.uploads[upload.ID] = &copied
	return nil
}

func (r *fakeUploadRepo) Save(upload *models.Upload) error {
	if r.failAll {
		return errFakeRepo
	}
	copied := *upload
	r.uploads[upload.ID] = &copied
	return nil
}

func (r *fakeUploadRepo) FindByID(id string) (*models.Upload, error) {
	if u, ok := r.uploads[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repositories.ErrUploadNotFound
}

func (r *fakeUploadRepo) FindByOwnerAndName(userID, fileName string) (*models.Upload, error) {
	for _, u := range r.uploads {
		if u.UserID == userID && u.FileName == fileName {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUploadNotFound
}

func (r *fakeUploadRepo) FindByOwner(userID string) ([]models.Upload, error) {
	var out []models.Upload
	for _, u := range r.uploads {
		if u.UserID == userID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// FindAllWithOwner воспроизводит Preload("User") gorm-реализации:
// владелец приходит заполненным
func (r *fakeUploadRepo) FindAllWithOwner() ([]models.Upload, error) {
	var out []models.Upload
	for _, u := range r.uploads {
		c := *u
		if r.users != nil {
			if owner, err := r.users.FindByID(c.UserID); err == nil {
				c.User = owner
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (r *fakeUploadRepo) DeleteByIDScoped(id, userID string) error {
	if u, ok := r.uploads[id]; ok && u.UserID == userID {
		delete(r.uploads, id)
		return nil
	}
	return repositories.ErrUploadNotFound
}

func (r *fakeUploadRepo) DeleteByID(id string) error {
	if _, ok := r.uploads[id]; ok {
		delete(r.uploads, id)
		return nil
	}
	return repositories.ErrUploadNotFound
}

// Фейки внешних зависимостей

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendWelcome(to, name string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type fakeGoogle struct {
	profile *googleauth.Profile
	err     error
}

func (g *fakeGoogle) Exchange(code string) (*googleauth.Profile, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.profile, nil
}

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (g *fakeGenerator) Generate(prompt string) (string, error) {
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}
