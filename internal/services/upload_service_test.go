package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excelytics_backend/internal/appErrors"
	"excelytics_backend/internal/chart"
	"excelytics_backend/internal/models"
	"excelytics_backend/internal/services/dto"
)

var testExts = []string{"xlsx", "xls", "csv"}

func newUploadFixture() (*fakeUploadRepo, UploadService) {
	repo := newFakeUploadRepo()
	return repo, NewUploadService(repo, testExts)
}

func TestIngest_CreatesNewUpload(t *testing.T) {
	_, svc := newUploadFixture()

	resp, err := svc.Ingest("user-1", "sales.csv", []byte("city,total\nAlmaty,42\n"))
	require.NoError(t, err)

	assert.Equal(t, dto.UploadCreatedMessage, resp.Message)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Almaty", resp.Data[0]["city"])
	assert.Equal(t, float64(42), resp.Data[0]["total"])
}

func TestIngest_SameNameReplacesPreview(t *testing.T) {
	repo, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "sales.csv", []byte("city,total\nAlmaty,42\n"))
	require.NoError(t, err)

	resp, err := svc.Ingest("user-1", "sales.csv", []byte("city,total\nAstana,7\n"))
	require.NoError(t, err)
	assert.Equal(t, dto.UploadUpdatedMessage, resp.Message)

	// Последняя запись выигрывает, документ остается один
	uploads, err := repo.FindByOwner("user-1")
	require.NoError(t, err)
	require.Len(t, uploads, 1)

	rows, err := uploads[0].Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Astana", rows[0]["city"])
}

func TestIngest_SameNameDifferentOwners(t *testing.T) {
	repo, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "sales.csv", []byte("a\n1\n"))
	require.NoError(t, err)
	resp, err := svc.Ingest("user-2", "sales.csv", []byte("a\n2\n"))
	require.NoError(t, err)

	// Пара (владелец, имя) уникальна, а не имя само по себе
	assert.Equal(t, dto.UploadCreatedMessage, resp.Message)
	first, _ := repo.FindByOwner("user-1")
	second, _ := repo.FindByOwner("user-2")
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestIngest_RejectedExtension(t *testing.T) {
	_, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "notes.txt", []byte("whatever"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidFileType)
}

func TestIngest_ParseFailure(t *testing.T) {
	_, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "broken.xlsx", []byte("not a workbook"))
	require.Error(t, err)

	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
}

func TestDelete_OwnerScoped(t *testing.T) {
	repo, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "sales.csv", []byte("a\n1\n"))
	require.NoError(t, err)
	uploads, _ := repo.FindByOwner("user-1")
	id := uploads[0].ID

	// Чужой id неотличим от несуществующего
	_, err = svc.Delete("user-2", id)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUploadNotFound)

	resp, err := svc.Delete("user-1", id)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	_, err = svc.Delete("user-1", id)
	assert.ErrorIs(t, err, appErrors.ErrUploadNotFound)
}

func TestAdminDelete_Unscoped(t *testing.T) {
	repo, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "sales.csv", []byte("a\n1\n"))
	require.NoError(t, err)
	uploads, _ := repo.FindByOwner("user-1")

	resp, err := svc.AdminDelete(uploads[0].ID)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	_, err = svc.AdminDelete(uploads[0].ID)
	assert.ErrorIs(t, err, appErrors.ErrUploadNotFound)
}

func TestListAll_PopulatesOwner(t *testing.T) {
	userRepo := newFakeUserRepo()
	uploadRepo := newFakeUploadRepo()
	uploadRepo.users = userRepo
	svc := NewUploadService(uploadRepo, testExts)

	owner := &models.User{Name: "Alice", Email: "alice@test.com"}
	require.NoError(t, userRepo.Create(owner))

	_, err := svc.Ingest(owner.ID, "sales.csv", []byte("a\n1\n"))
	require.NoError(t, err)

	all, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)

	// Владелец подтянут вместе с загрузкой
	assert.Equal(t, owner.ID, all[0].UserID)
	assert.Equal(t, "Alice", all[0].UserName)
	assert.Equal(t, "alice@test.com", all[0].UserEmail)
}

func TestChartData_AuthorizationAndDispatch(t *testing.T) {
	repo, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "sales.csv", []byte("city,total\nAlmaty,42\nAstana,7\n"))
	require.NoError(t, err)
	uploads, _ := repo.FindByOwner("user-1")
	id := uploads[0].ID

	// Чужой пользователь без прав - 403
	_, err = svc.ChartData("user-2", false, id, chart.Selection{Family: chart.Bar2D, X: "city", Y: "total"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	// Владелец получает 2D-датасет
	result, err := svc.ChartData("user-1", false, id, chart.Selection{Family: chart.Bar2D, X: "city", Y: "total"})
	require.NoError(t, err)
	defer result.Release()
	require.NotNil(t, result.Chart)
	assert.Nil(t, result.Scene)
	assert.Equal(t, []string{"Almaty", "Astana"}, result.Chart.Labels)

	// Админ читает чужую загрузку
	_, err = svc.ChartData("user-2", true, id, chart.Selection{Family: chart.Pie2D, X: "city", Y: "total"})
	assert.NoError(t, err)
}

func TestChartData_SceneLifecycle(t *testing.T) {
	repo, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "sales.csv", []byte("city,total,year\nAlmaty,42,2021\nAstana,7,2022\n"))
	require.NoError(t, err)
	uploads, _ := repo.FindByOwner("user-1")

	result, err := svc.ChartData("user-1", false, uploads[0].ID, chart.Selection{
		Family: chart.Bar3D, X: "city", Y: "total", Z: "year",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Scene)
	assert.Nil(t, result.Chart)
	assert.False(t, result.Scene.Closed())
	assert.NotEmpty(t, result.Scene.Objects)

	result.Release()
	assert.True(t, result.Scene.Closed())
	// Повторный Release безопасен
	result.Release()
}

func TestChartData_InvalidSelection(t *testing.T) {
	repo, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "sales.csv", []byte("city,total\nAlmaty,42\n"))
	require.NoError(t, err)
	uploads, _ := repo.FindByOwner("user-1")
	id := uploads[0].ID

	tests := []struct {
		name string
		sel  chart.Selection
	}{
		{"unbound axis", chart.Selection{Family: chart.Bar2D, X: "city"}},
		{"unknown column", chart.Selection{Family: chart.Bar2D, X: "city", Y: "revenue"}},
		{"zero pie total", chart.Selection{Family: chart.Pie3D, X: "total", Y: "city"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ChartData("user-1", false, id, tt.sel)
			require.Error(t, err)

			var appErr *appErrors.AppError
			require.True(t, appErrors.As(err, &appErr))
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
		})
	}
}

func TestChartData_UnknownUpload(t *testing.T) {
	_, svc := newUploadFixture()

	_, err := svc.ChartData("user-1", false, "missing", chart.Selection{Family: chart.Bar2D, X: "a", Y: "b"})
	assert.ErrorIs(t, err, appErrors.ErrUploadNotFound)
}

func TestHistory_NewestFirst(t *testing.T) {
	_, svc := newUploadFixture()

	_, err := svc.Ingest("user-1", "first.csv", []byte("a\n1\n"))
	require.NoError(t, err)
	_, err = svc.Ingest("user-1", "second.csv", []byte("a\n2\n"))
	require.NoError(t, err)
	_, err = svc.Ingest("user-2", "other.csv", []byte("a\n3\n"))
	require.NoError(t, err)

	history, err := svc.History("user-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.False(t, history[0].Timestamp.Before(history[1].Timestamp))
	require.Len(t, history[0].Data, 1)
}
