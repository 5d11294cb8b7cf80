package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"invoicehub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.BusinessProfile // keyed by user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*model.BusinessProfile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *model.BusinessProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *model.BusinessProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*model.BusinessProfile, error) {
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*model.BusinessProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) UpdateLogoURL(_ context.Context, userID uuid.UUID, logoURL string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.LogoURL = logoURL
	return nil
}

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[objectName] = data
	return nil
}

func (f *fakeObjectStore) PublicURL(objectName string) string {
	return "http://storage.local/logos/" + objectName
}

func TestSaveProfileCreatesThenUpdates(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	auditRepo := &fakeAuditRepo{}
	svc := NewProfileService(profileRepo, auditRepo, &fakeTxManager{}, newFakeObjectStore())

	userID := uuid.New()
	created, err := svc.SaveProfile(context.Background(), SaveProfileRequest{
		UserID:       userID.String(),
		BusinessName: "Acme Bakery",
		ContactEmail: "hello@acme.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Bakery", created.BusinessName)
	assert.Equal(t, "USD", created.DefaultCurrency)
	assert.Equal(t, "UTC", created.Timezone)

	updated, err := svc.SaveProfile(context.Background(), SaveProfileRequest{
		UserID:          userID.String(),
		BusinessName:    "Acme Bakery & Cafe",
		ContactEmail:    "hello@acme.example",
		DefaultCurrency: "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "second save updates, never duplicates")
	assert.Equal(t, "Acme Bakery & Cafe", updated.BusinessName)
	assert.Equal(t, "EUR", updated.DefaultCurrency)

	require.Len(t, auditRepo.entries, 2)
	assert.Equal(t, model.ActionSaveBusinessProfile, auditRepo.entries[0].Action)
}

func TestUploadLogoOverwritesByExtension(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	store := newFakeObjectStore()
	svc := NewProfileService(profileRepo, &fakeAuditRepo{}, &fakeTxManager{}, store)

	userID := uuid.New()
	profileRepo.profiles[userID] = &model.BusinessProfile{ID: uuid.New(), UserID: userID, BusinessName: "Acme"}

	resp, err := svc.UploadLogo(context.Background(), userID.String(), "brand.PNG", strings.NewReader("img-bytes"), 9, "image/png")
	require.NoError(t, err)

	wantObject := userID.String() + "/logo.PNG"
	assert.Contains(t, store.objects, wantObject)
	assert.Equal(t, "http://storage.local/logos/"+wantObject, resp.LogoURL)
	assert.Equal(t, resp.LogoURL, profileRepo.profiles[userID].LogoURL)
}

func TestUploadLogoRequiresProfile(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeAuditRepo{}, &fakeTxManager{}, newFakeObjectStore())

	_, err := svc.UploadLogo(context.Background(), uuid.New().String(), "logo.png", strings.NewReader("x"), 1, "image/png")
	assert.ErrorContains(t, err, "business profile not found")
}
