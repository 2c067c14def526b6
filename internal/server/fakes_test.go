package server

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/gestion-taches/internal/models"
	"github.com/ayush/gestion-taches/internal/store"
)

type fakeHasher struct{}

func (fakeHasher) Matches(hash, plain string) bool { return hash == "hashed:"+plain }

// fakeUsers keeps users in memory and mimics the unique email index.
type fakeUsers struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]models.User
	calls   int
	panicky bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range f.byID {
		if u.Email == email && id != except {
			return true
		}
	}
	return false
}

func public(u models.User) *models.User {
	u.MotDePasse = ""
	return &u
}

func (f *fakeUsers) Create(_ context.Context, in models.UserInput) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if f.emailTaken(email, primitive.NilObjectID) {
		return nil, &store.ConflictError{Message: "email already in use"}
	}
	u := models.User{
		ID:           primitive.NewObjectID(),
		Nom:          in.Nom,
		Email:        email,
		MotDePasse:   "hashed:" + in.MotDePasse,
		DateCreation: time.Now().UTC(),
	}
	f.byID[u.ID] = u
	return public(u), nil
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panicky {
		panic("list exploded")
	}
	out := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *public(u))
	}
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return public(u), nil
}

func (f *fakeUsers) Update(_ context.Context, id primitive.ObjectID, p models.UserPatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if f.emailTaken(email, id) {
			return nil, &store.ConflictError{Message: "email already in use"}
		}
		u.Email = email
	}
	if p.Nom != nil {
		u.Nom = *p.Nom
	}
	if p.MotDePasse != nil {
		u.MotDePasse = "hashed:" + *p.MotDePasse
	}
	f.byID[id] = u
	return public(u), nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) Credentials(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) TouchLogin(_ context.Context, id primitive.ObjectID) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return time.Time{}, store.ErrNotFound
	}
	at := time.Now().UTC()
	u.DernierConnexion = &at
	f.byID[id] = u
	return at, nil
}

// fakeTasks records what the handlers pass down.
type fakeTasks struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]models.TaskView
	calls     int
	created   *models.Task
	lastQuery *models.TaskQuery
	lastPage  *models.Page
	lastUser  primitive.ObjectID
	lastPatch *models.TaskPatch
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{byID: map[primitive.ObjectID]models.TaskView{}}
}

func (f *fakeTasks) add(titre string) models.TaskView {
	v := models.TaskView{
		ID:           primitive.NewObjectID(),
		Titre:        titre,
		Priorite:     models.PriorityMedium,
		Statut:       models.StatusTodo,
		Categories:   []models.Category{},
		DateCreation: time.Now().UTC(),
	}
	f.byID[v.ID] = v
	return v
}

func (f *fakeTasks) Create(_ context.Context, t models.Task) (*models.TaskView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.created = &t
	v := models.TaskView{
		ID:           primitive.NewObjectID(),
		Titre:        t.Titre,
		Description:  t.Description,
		DateEcheance: t.DateEcheance,
		Priorite:     t.Priorite,
		Statut:       t.Statut,
		Utilisateur:  &models.User{ID: t.Utilisateur, Nom: "Owner"},
		Categories:   []models.Category{},
		DateCreation: time.Now().UTC(),
	}
	f.byID[v.ID] = v
	return &v, nil
}

func (f *fakeTasks) List(_ context.Context, q models.TaskQuery) (*models.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastQuery = &q
	return &models.TaskPage{Taches: []models.TaskView{}, Pagination: models.NewPagination(q.Page, int64(len(f.byID)))}, nil
}

func (f *fakeTasks) ListByUser(_ context.Context, userID primitive.ObjectID, page models.Page) (*models.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastUser = userID
	f.lastPage = &page
	return &models.TaskPage{Taches: []models.TaskView{}, Pagination: models.NewPagination(page, 0)}, nil
}

func (f *fakeTasks) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.TaskView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := []models.TaskView{}
	for _, id := range ids {
		if v, ok := f.byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeTasks) Get(_ context.Context, id primitive.ObjectID) (*models.TaskView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	v, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func (f *fakeTasks) Update(_ context.Context, id primitive.ObjectID, p models.TaskPatch) (*models.TaskView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPatch = &p
	v, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.Statut != nil {
		v.Statut = *p.Statut
	}
	if p.Titre != nil {
		v.Titre = *p.Titre
	}
	f.byID[id] = v
	return &v, nil
}

func (f *fakeTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeCategories struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.Category
	calls int
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{byID: map[primitive.ObjectID]models.Category{}}
}

func (f *fakeCategories) Create(_ context.Context, c models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, existing := range f.byID {
		if existing.Nom == c.Nom {
			return nil, &store.ConflictError{Message: "category name already in use"}
		}
	}
	c.ID = primitive.NewObjectID()
	c.DateCreation = time.Now().UTC()
	if c.Taches == nil {
		c.Taches = []primitive.ObjectID{}
	}
	f.byID[c.ID] = c
	return &c, nil
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := []models.Category{}
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategories) Get(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	c, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCategories) Update(_ context.Context, id primitive.ObjectID, p models.CategoryPatch) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	c, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.Nom != nil {
		c.Nom = *p.Nom
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	f.byID[id] = c
	return &c, nil
}

func (f *fakeCategories) SetIcon(_ context.Context, id primitive.ObjectID, key string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	c, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Icone = key
	f.byID[id] = c
	return &c, nil
}

func (f *fakeCategories) Delete(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	c, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(f.byID, id)
	return &c, nil
}

type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]string
	next int
}

func newFakeSessions() *fakeSessions { return &fakeSessions{byID: map[string]string{}} }

func (f *fakeSessions) Create(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	sid := "sid-" + strings.Repeat("x", f.next)
	f.byID[sid] = userID
	return sid, nil
}

func (f *fakeSessions) Get(_ context.Context, sid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[sid], nil
}

func (f *fakeSessions) Delete(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, sid)
	return nil
}

type storedIcon struct {
	data        []byte
	contentType string
}

type fakeIcons struct {
	mu        sync.Mutex
	objects   map[string]storedIcon
	removeErr error
}

func newFakeIcons() *fakeIcons { return &fakeIcons{objects: map[string]storedIcon{}} }

func (f *fakeIcons) Put(_ context.Context, id primitive.ObjectID, r io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := store.IconKey(id, contentType)
	f.objects[key] = storedIcon{data: data, contentType: contentType}
	return key, nil
}

func (f *fakeIcons) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeIcons) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, nil
}
