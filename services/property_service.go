package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"propman/constants"
	"propman/dto"
	apperrors "propman/errors"
	"propman/models"
	"propman/services/logger"
	"propman/validator"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/lib/pq"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

const (
	searchThreshold = 0.5
	searchLimit     = 20
)

type PropertyServiceOptions struct {
	Properties  PropertyStore
	Permissions PermissionChecker
	Cache       Cache
	Uploader    ImageUploader
	Geocoder    Geocoder
	Logger      logger.Logger
	CacheTTL    time.Duration
}

type PropertyService struct {
	properties  PropertyStore
	permissions PermissionChecker
	cache       Cache
	uploader    ImageUploader
	geocoder    Geocoder
	logger      logger.Logger
	cacheTTL    time.Duration
}

func NewPropertyService(opts PropertyServiceOptions) *PropertyService {
	s := &PropertyService{
		properties:  opts.Properties,
		permissions: opts.Permissions,
		cache:       opts.Cache,
		uploader:    opts.Uploader,
		geocoder:    opts.Geocoder,
		logger:      opts.Logger,
		cacheTTL:    opts.CacheTTL,
	}
	if s.cache == nil {
		s.cache = NopCache{}
	}
	if s.logger == nil {
		s.logger = logger.Nop{}
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = 10 * time.Minute
	}
	return s
}

func (s *PropertyService) Create(ctx context.Context, caller Caller, orgID uint, req dto.CreatePropertyRequest) (*models.Property, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceProperty, ActionCreate); err != nil {
		return nil, err
	}

	property := &models.Property{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Address:        strings.TrimSpace(req.Address),
		Province:       req.Province,
		District:       req.District,
		Description:    req.Description,
		Status:         constants.PropertyStatusAvailable,
		NightlyRate:    req.NightlyRate,
		MaxGuests:      req.MaxGuests,
		Amenities:      pq.StringArray(req.Amenities),
	}
	s.locate(ctx, property)
	if err := s.properties.Create(ctx, property); err != nil {
		return nil, storageErr(err, "")
	}
	invalidate(ctx, s.cache, s.logger, orgTag("properties", orgID))
	return property, nil
}

// locate gắn tọa độ cho chỗ ở; lỗi geocode không chặn việc tạo
func (s *PropertyService) locate(ctx context.Context, p *models.Property) {
	if s.geocoder == nil || p.Address == "" {
		return
	}
	lat, lng, err := s.geocoder.Geocode(ctx, fullAddress(p.Address, p.District, p.Province))
	if err != nil {
		s.logger.Warn("Không lấy được tọa độ cho %q: %v", p.Address, err)
		return
	}
	p.Latitude, p.Longitude = lat, lng
}

func (s *PropertyService) Get(ctx context.Context, caller Caller, id uint) (*models.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy chỗ ở")
	}
	if err := authorize(ctx, s.permissions, caller, property.OrganizationID, ResourceProperty, ActionRead); err != nil {
		return nil, err
	}
	return property, nil
}

// List danh sách chỗ ở của tổ chức, có cache
func (s *PropertyService) List(ctx context.Context, caller Caller, orgID uint) ([]models.Property, error) {
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceProperty, ActionRead); err != nil {
		return nil, err
	}
	tag := orgTag("properties", orgID)
	list, err := Remember(ctx, s.cache, s.logger, tag+":all", s.cacheTTL, []string{tag},
		func() ([]models.Property, error) {
			return s.properties.ListByOrganization(ctx, orgID)
		})
	if err != nil {
		return nil, storageErr(err, "")
	}
	return list, nil
}

// UpdateStatus đổi trạng thái thủ công, ví dụ chuyển sang bảo trì
func (s *PropertyService) UpdateStatus(ctx context.Context, caller Caller, id uint, status string) (*models.Property, error) {
	target := constants.PropertyStatus(status)
	if !target.Valid() {
		return nil, apperrors.ValidationError(fmt.Sprintf("Trạng thái %q không hợp lệ", status))
	}
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy chỗ ở")
	}
	if err := authorize(ctx, s.permissions, caller, property.OrganizationID, ResourceProperty, ActionUpdate); err != nil {
		return nil, err
	}
	if err := s.properties.UpdateStatus(ctx, id, target); err != nil {
		return nil, storageErr(err, "Không tìm thấy chỗ ở")
	}
	property.Status = target
	invalidate(ctx, s.cache, s.logger, orgTag("properties", property.OrganizationID), propertyTag(id))
	return property, nil
}

// UploadImage tải ảnh lên Cloudinary, ảnh đầu tiên làm ảnh đại diện
func (s *PropertyService) UploadImage(ctx context.Context, caller Caller, id uint, file io.Reader) (*models.Property, error) {
	if s.uploader == nil {
		return nil, apperrors.StateError("Chức năng upload ảnh chưa được cấu hình")
	}
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy chỗ ở")
	}
	if err := authorize(ctx, s.permissions, caller, property.OrganizationID, ResourceProperty, ActionUpdate); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, file, fmt.Sprintf("property_%d", id))
	if err != nil {
		s.logger.Error("Upload ảnh chỗ ở %d thất bại: %v", id, err)
		return nil, apperrors.StorageError("Upload thất bại", err)
	}
	property.Images = append(property.Images, url)
	if property.Avatar == "" {
		property.Avatar = url
	}
	if err := s.properties.Save(ctx, property); err != nil {
		return nil, storageErr(err, "")
	}
	invalidate(ctx, s.cache, s.logger, orgTag("properties", property.OrganizationID), propertyTag(id))
	return property, nil
}

// Search tìm gần đúng theo tên và địa chỉ, không phân biệt dấu
func (s *PropertyService) Search(ctx context.Context, caller Caller, orgID uint, query string) ([]dto.PropertySearchResult, error) {
	q := normalizeInput(query)
	if q == "" {
		return nil, apperrors.ValidationError("Từ khóa tìm kiếm không được để trống")
	}
	list, err := s.List(ctx, caller, orgID)
	if err != nil {
		return nil, err
	}
	return rankProperties(list, q), nil
}

func rankProperties(list []models.Property, q string) []dto.PropertySearchResult {
	byKey := make(map[string]*models.Property, len(list))
	keys := make([]string, 0, len(list))
	var results []dto.PropertySearchResult
	for i := range list {
		p := &list[i]
		name := normalizeInput(p.Name)
		address := normalizeInput(p.Address)
		score := bestWindowSimilarity(q, name)
		if alt := bestWindowSimilarity(q, address); alt > score {
			score = alt
		}
		key := name + " " + address
		byKey[key] = p
		keys = append(keys, key)
		if score >= searchThreshold {
			results = append(results, toSearchResult(p, score))
		}
	}

	// không có kết quả đủ gần thì lấy ứng viên gần nhất theo n-gram
	if len(results) == 0 && len(keys) > 0 {
		if best := createMatcher(keys).Closest(q); best != "" {
			results = append(results, toSearchResult(byKey[best], calculateSimilarity(q, best)))
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}
	return results
}

func toSearchResult(p *models.Property, score float64) dto.PropertySearchResult {
	return dto.PropertySearchResult{
		ID:         p.ID,
		Name:       p.Name,
		Address:    p.Address,
		Status:     string(p.Status),
		Similarity: score,
	}
}

func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return strings.Join(strings.Fields(input), " ")
}

// Tạo đối tượng closestmatch cho danh sách từ khóa
func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// Tính độ tương đồng giữa hai chuỗi
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len(a))
	if float64(len(b)) > maxLen {
		maxLen = float64(len(b))
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/maxLen
}

// bestWindowSimilarity so q với từng cụm từ liên tiếp cùng số từ trong text
func bestWindowSimilarity(q, text string) float64 {
	if strings.Contains(text, q) {
		return 1.0
	}
	words := strings.Fields(text)
	n := len(strings.Fields(q))
	if n == 0 || len(words) <= n {
		return calculateSimilarity(q, text)
	}
	best := 0.0
	for i := 0; i+n <= len(words); i++ {
		if sim := calculateSimilarity(q, strings.Join(words[i:i+n], " ")); sim > best {
			best = sim
		}
	}
	return best
}

// Units

func (s *PropertyService) CreateUnit(ctx context.Context, caller Caller, propertyID uint, req dto.CreateUnitRequest) (*models.Unit, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy chỗ ở")
	}
	if err := authorize(ctx, s.permissions, caller, property.OrganizationID, ResourceUnit, ActionCreate); err != nil {
		return nil, err
	}
	unit := &models.Unit{
		PropertyID:  propertyID,
		Name:        strings.TrimSpace(req.Name),
		Floor:       req.Floor,
		Bedrooms:    req.Bedrooms,
		Acreage:     req.Acreage,
		MonthlyRent: req.MonthlyRent,
		Status:      constants.UnitStatusVacant,
	}
	if err := s.properties.CreateUnit(ctx, unit); err != nil {
		return nil, storageErr(err, "")
	}
	invalidate(ctx, s.cache, s.logger, orgTag("units", property.OrganizationID))
	return unit, nil
}

func (s *PropertyService) ListUnits(ctx context.Context, caller Caller, propertyID uint) ([]models.Unit, error) {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy chỗ ở")
	}
	if err := authorize(ctx, s.permissions, caller, property.OrganizationID, ResourceUnit, ActionRead); err != nil {
		return nil, err
	}
	units, err := s.properties.ListUnits(ctx, propertyID)
	if err != nil {
		return nil, storageErr(err, "")
	}
	return units, nil
}

func (s *PropertyService) UpdateUnitStatus(ctx context.Context, caller Caller, unitID uint, status string) (*models.Unit, error) {
	target := constants.UnitStatus(status)
	if !target.Valid() {
		return nil, apperrors.ValidationError(fmt.Sprintf("Trạng thái %q không hợp lệ", status))
	}
	unit, err := s.properties.FindUnit(ctx, unitID)
	if err != nil {
		return nil, storageErr(err, "Không tìm thấy căn hộ")
	}
	if unit.Property == nil {
		return nil, apperrors.NotFoundError("Không tìm thấy chỗ ở của căn hộ")
	}
	orgID := unit.Property.OrganizationID
	if err := authorize(ctx, s.permissions, caller, orgID, ResourceUnit, ActionUpdate); err != nil {
		return nil, err
	}
	if err := s.properties.UpdateUnitStatus(ctx, unitID, target); err != nil {
		return nil, storageErr(err, "Không tìm thấy căn hộ")
	}
	unit.Status = target
	invalidate(ctx, s.cache, s.logger, orgTag("units", orgID), unitTag(unitID))
	return unit, nil
}
