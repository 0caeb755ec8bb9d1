package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"sareemart/internal/common"
	"sareemart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockSareeRepository struct {
	mock.Mock
}

func (m *MockSareeRepository) Create(ctx context.Context, saree *models.Saree) error {
	args := m.Called(ctx, saree)
	return args.Error(0)
}

func (m *MockSareeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Saree, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Saree), args.Error(1)
}

func (m *MockSareeRepository) Update(ctx context.Context, saree *models.Saree) error {
	args := m.Called(ctx, saree)
	return args.Error(0)
}

func (m *MockSareeRepository) UpdateImage(ctx context.Context, id uuid.UUID, image *string) error {
	args := m.Called(ctx, id, image)
	return args.Error(0)
}

func (m *MockSareeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSareeRepository) List(ctx context.Context, limit, offset int) ([]*models.Saree, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Saree), args.Error(1)
}

func (m *MockSareeRepository) AdvancedSearch(ctx context.Context, filter *models.SareeSearchFilter) ([]*models.Saree, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Saree), args.Error(1)
}

func (m *MockSareeRepository) ListLowStock(ctx context.Context, threshold, limit int) ([]*models.Saree, error) {
	args := m.Called(ctx, threshold, limit)
	return args.Get(0).([]*models.Saree), args.Error(1)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type SareeServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockSareeRepository
	mockMinio *MockMinioService
	mockCache *MockCacheService
	service   SareeService
	sareeID   uuid.UUID
}

func (suite *SareeServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockSareeRepository{}
	suite.mockMinio = &MockMinioService{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewSareeService(suite.mockRepo, suite.mockMinio, suite.mockCache, "saree-images")
	suite.sareeID = uuid.New()
}

func (suite *SareeServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockMinio.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestSareeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SareeServiceTestSuite))
}

func (suite *SareeServiceTestSuite) TestCreate_Success() {
	saree := &models.Saree{
		Name:     "Banarasi Silk Saree",
		Category: "Silk",
		Price:    12500,
		Stock:    3,
	}

	suite.mockRepo.On("Create", mock.Anything, saree).Return(nil).Once()

	err := suite.service.Create(context.Background(), saree)

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, saree.ID)
}

func (suite *SareeServiceTestSuite) TestCreate_NameRequired() {
	saree := &models.Saree{Category: "Silk", Price: 12500, Stock: 3}

	err := suite.service.Create(context.Background(), saree)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *SareeServiceTestSuite) TestCreate_NonPositivePrice() {
	saree := &models.Saree{Name: "Test", Category: "Silk", Price: 0, Stock: 3}

	err := suite.service.Create(context.Background(), saree)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *SareeServiceTestSuite) TestCreate_NegativeStock() {
	saree := &models.Saree{Name: "Test", Category: "Silk", Price: 100, Stock: -1}

	err := suite.service.Create(context.Background(), saree)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsValidation(err))
}

func (suite *SareeServiceTestSuite) TestGetByID_CacheHit() {
	cached := &models.Saree{ID: suite.sareeID, Name: "Banarasi Silk Saree"}
	suite.mockCache.On("GetSaree", mock.Anything, suite.sareeID).Return(cached, nil).Once()

	saree, err := suite.service.GetByID(context.Background(), suite.sareeID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, saree)
}

func (suite *SareeServiceTestSuite) TestGetByID_CacheMissFillsCache() {
	stored := &models.Saree{ID: suite.sareeID, Name: "Banarasi Silk Saree"}
	suite.mockCache.On("GetSaree", mock.Anything, suite.sareeID).Return(nil, nil).Once()
	suite.mockRepo.On("GetByID", mock.Anything, suite.sareeID).Return(stored, nil).Once()
	suite.mockCache.On("SetSaree", mock.Anything, stored, mock.Anything).Return(nil).Once()

	saree, err := suite.service.GetByID(context.Background(), suite.sareeID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), stored, saree)
}

func (suite *SareeServiceTestSuite) TestGetByID_NotFound() {
	suite.mockCache.On("GetSaree", mock.Anything, suite.sareeID).Return(nil, nil).Once()
	suite.mockRepo.On("GetByID", mock.Anything, suite.sareeID).
		Return(nil, common.NewNotFoundError("saree")).Once()

	_, err := suite.service.GetByID(context.Background(), suite.sareeID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *SareeServiceTestSuite) TestUploadImage_StoresObjectAndKey() {
	reader := strings.NewReader("image-bytes")
	objectName := "sarees/" + suite.sareeID.String()

	suite.mockRepo.On("GetByID", mock.Anything, suite.sareeID).
		Return(&models.Saree{ID: suite.sareeID, Name: "Banarasi Silk Saree"}, nil).Once()
	suite.mockMinio.On("UploadImage", mock.Anything, "saree-images", objectName, reader, int64(11), "image/png").
		Return(nil).Once()
	suite.mockRepo.On("UpdateImage", mock.Anything, suite.sareeID, mock.MatchedBy(func(image *string) bool {
		return image != nil && *image == objectName
	})).Return(nil).Once()
	suite.mockCache.On("DeleteSaree", mock.Anything, suite.sareeID).Return(nil).Once()

	got, err := suite.service.UploadImage(context.Background(), suite.sareeID, reader, 11, "image/png")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), objectName, got)
}

func (suite *SareeServiceTestSuite) TestImageURL_NoImage() {
	stored := &models.Saree{ID: suite.sareeID, Name: "Banarasi Silk Saree"}
	suite.mockCache.On("GetSaree", mock.Anything, suite.sareeID).Return(nil, nil).Once()
	suite.mockRepo.On("GetByID", mock.Anything, suite.sareeID).Return(stored, nil).Once()
	suite.mockCache.On("SetSaree", mock.Anything, stored, mock.Anything).Return(nil).Once()

	_, err := suite.service.ImageURL(context.Background(), suite.sareeID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), common.IsNotFound(err))
}

func (suite *SareeServiceTestSuite) TestImageURL_Presigned() {
	image := "sarees/" + suite.sareeID.String()
	stored := &models.Saree{ID: suite.sareeID, Name: "Banarasi Silk Saree", Image: &image}
	suite.mockCache.On("GetSaree", mock.Anything, suite.sareeID).Return(stored, nil).Once()
	suite.mockMinio.On("GetPresignedURL", mock.Anything, "saree-images", image, imageURLExpiry).
		Return("https://minio/presigned", nil).Once()

	url, err := suite.service.ImageURL(context.Background(), suite.sareeID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://minio/presigned", url)
}
