package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/makansehat/backend/internal/allergen"
	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/types"
)

// MenuImageSigner issues presigned URLs for menu photos.
type MenuImageSigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
	GenerateUploadURL(ctx context.Context, objectKey, contentType string, expiration time.Duration) (string, error)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// MenuService manages the weekly menus, the students' menu choices and the kitchen
// view of them.
type MenuService struct {
	db          *gorm.DB
	ingredients *IngredientService
	profiles    UserAllergenLoader
	images      MenuImageSigner
	imageTTL    time.Duration
	validate    *validator.Validate
	now         func() time.Time
	log         *zap.Logger
}

// NewMenuService creates a MenuService. images may be nil, which disables photos.
func NewMenuService(db *gorm.DB, ingredients *IngredientService, profiles UserAllergenLoader, images MenuImageSigner, imageTTL time.Duration, log *zap.Logger) *MenuService {
	if imageTTL <= 0 {
		imageTTL = 15 * time.Minute
	}
	return &MenuService{
		db:          db,
		ingredients: ingredients,
		profiles:    profiles,
		images:      images,
		imageTTL:    imageTTL,
		validate:    newValidator(),
		now:         time.Now,
		log:         log,
	}
}

// WithClock replaces the clock used to decide today's date.
func (s *MenuService) WithClock(now func() time.Time) *MenuService {
	s.now = now
	return s
}

// WeekStart returns midnight of the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func (s *MenuService) today() string {
	return s.now().Format(models.DateLayout)
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return t, nil
}

// weekDates returns n consecutive dates from start, or from this week's Monday when
// start is empty.
func (s *MenuService) weekDates(start string, n int) ([]string, error) {
	var first time.Time
	if start == "" {
		first = WeekStart(s.now())
	} else {
		t, err := parseDate(start)
		if err != nil {
			return nil, err
		}
		first = t
	}

	dates := make([]string, n)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, i).Format(models.DateLayout)
	}
	return dates, nil
}

func menuKey(date, menuType string) string {
	return date + "|" + menuType
}

func (s *MenuService) menusBetween(ctx context.Context, from, to string) (map[string]*models.Menu, error) {
	var menus []models.Menu
	if err := s.db.WithContext(ctx).Where("date >= ? AND date <= ?", from, to).Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to load menus: %w", err)
	}
	byKey := make(map[string]*models.Menu, len(menus))
	for i := range menus {
		byKey[menuKey(menus[i].Date, menus[i].MenuType)] = &menus[i]
	}
	return byKey, nil
}

// menuView annotates a menu with the allergens of its resolved ingredients.
func (s *MenuService) menuView(ctx context.Context, menu *models.Menu) (*types.MenuView, error) {
	batch, err := s.ingredients.ResolveBatch(ctx, menu.Ingredients)
	if err != nil {
		return nil, err
	}
	allergens, err := s.ingredients.Aggregate(ctx, batch.Validated)
	if err != nil {
		return nil, err
	}

	view := &types.MenuView{
		Menu:               *menu,
		IngredientList:     allergen.SplitList(menu.Ingredients),
		Allergens:          allergens,
		UnknownIngredients: batch.Unknown,
	}
	if s.images != nil && menu.ImageKey != "" {
		url, err := s.images.GeneratePresignedURL(ctx, menu.ImageKey, s.imageTTL)
		if err != nil {
			s.log.Warn("Failed to presign menu image", zap.String("key", menu.ImageKey), zap.Error(err))
		} else {
			view.ImageURL = url
		}
	}
	return view, nil
}

// UpsertMenu creates or replaces the menu of one day and menu type.
func (s *MenuService) UpsertMenu(ctx context.Context, req *types.UpsertMenuRequest) (*types.MenuView, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	var menu models.Menu
	err := s.db.WithContext(ctx).Where("date = ? AND menu_type = ?", req.Date, req.MenuType).First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		menu = models.Menu{Date: req.Date, MenuType: req.MenuType}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	menu.Name = strings.TrimSpace(req.Name)
	menu.Description = strings.TrimSpace(req.Description)
	menu.Ingredients = strings.Join(allergen.Dedupe(req.Ingredients), ",")
	menu.Calories = req.Calories

	if err := s.db.WithContext(ctx).Save(&menu).Error; err != nil {
		return nil, fmt.Errorf("failed to save menu: %w", err)
	}
	return s.menuView(ctx, &menu)
}

func (s *MenuService) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Menu{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete menu: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMenuNotFound
	}
	return nil
}

// Week returns the menus of the seven days starting at start.
func (s *MenuService) Week(ctx context.Context, start string) (*types.WeekMenus, error) {
	dates, err := s.weekDates(start, 7)
	if err != nil {
		return nil, err
	}
	menus, err := s.menusBetween(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}

	week := &types.WeekMenus{Start: dates[0], Days: make([]types.MenuDay, len(dates))}
	for i, date := range dates {
		t, _ := time.Parse(models.DateLayout, date)
		day := types.MenuDay{Date: date, Weekday: t.Weekday().String()}
		if m, ok := menus[menuKey(date, models.MenuTypeDaily)]; ok {
			if day.Daily, err = s.menuView(ctx, m); err != nil {
				return nil, err
			}
		}
		if m, ok := menus[menuKey(date, models.MenuTypeSafe)]; ok {
			if day.Safe, err = s.menuView(ctx, m); err != nil {
				return nil, err
			}
		}
		week.Days[i] = day
	}
	return week, nil
}

// ImageUploadURL reserves an object key for a menu photo and returns a presigned
// upload URL for it.
func (s *MenuService) ImageUploadURL(ctx context.Context, menuID uuid.UUID, req *types.ImageUploadRequest) (*types.ImageUploadResponse, error) {
	if s.images == nil {
		return nil, ErrImagesDisabled
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	var menu models.Menu
	err := s.db.WithContext(ctx).Where("id = ?", menuID).First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	key := fmt.Sprintf("menus/%s/%s%s", menu.Date, uuid.New(), imageExtensions[req.ContentType])
	url, err := s.images.GenerateUploadURL(ctx, key, req.ContentType, s.imageTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&menu).Update("image_key", key).Error; err != nil {
		return nil, fmt.Errorf("failed to save image key: %w", err)
	}

	return &types.ImageUploadResponse{
		UploadURL: url,
		ImageKey:  key,
		ExpiresIn: int(s.imageTTL.Seconds()),
	}, nil
}

// Choose records a student's menu type for a day. Past days cannot be changed and
// the chosen menu must exist.
func (s *MenuService) Choose(ctx context.Context, userID uuid.UUID, req *types.MenuChoiceRequest) (*models.MenuChoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}
	if req.Date < s.today() {
		return nil, fmt.Errorf("%w: cannot choose a menu for a past date", ErrInvalidInput)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Menu{}).
		Where("date = ? AND menu_type = ?", req.Date, req.MenuType).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check menu: %w", err)
	}
	if count == 0 {
		return nil, ErrMenuNotFound
	}

	var choice models.MenuChoice
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, req.Date).First(&choice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		choice = models.MenuChoice{UserID: userID, Date: req.Date}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load choice: %w", err)
	}
	choice.MenuType = req.MenuType
	choice.AutoAssigned = false

	if err := s.db.WithContext(ctx).Save(&choice).Error; err != nil {
		return nil, fmt.Errorf("failed to save choice: %w", err)
	}
	return &choice, nil
}

// Choices returns the student's week, checking each chosen menu against their
// allergens.
func (s *MenuService) Choices(ctx context.Context, userID uuid.UUID, start string) (*types.ChoiceWeek, error) {
	dates, err := s.weekDates(start, 7)
	if err != nil {
		return nil, err
	}
	userAllergens, err := s.profiles.LoadUserAllergens(ctx, userID)
	if err != nil {
		return nil, err
	}

	var choices []models.MenuChoice
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, dates[0], dates[len(dates)-1]).
		Find(&choices).Error; err != nil {
		return nil, fmt.Errorf("failed to load choices: %w", err)
	}
	byDate := make(map[string]models.MenuChoice, len(choices))
	for _, c := range choices {
		byDate[c.Date] = c
	}

	menus, err := s.menusBetween(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}

	week := &types.ChoiceWeek{Start: dates[0], UserAllergens: userAllergens, Days: make([]types.ChoiceDay, len(dates))}
	for i, date := range dates {
		day := types.ChoiceDay{Date: date}
		if c, ok := byDate[date]; ok {
			day.MenuType = c.MenuType
			day.AutoAssigned = c.AutoAssigned
			if m, ok := menus[menuKey(date, c.MenuType)]; ok {
				view, err := s.menuView(ctx, m)
				if err != nil {
					return nil, err
				}
				matched := allergen.MatchesAllergy(view.Allergens, userAllergens)
				safe := allergen.IsSafe(matched)
				day.Menu = view
				day.IsSafe = &safe
				day.MatchedAllergens = matched
			}
		}
		week.Days[i] = day
	}
	return week, nil
}

// KitchenSummary counts the portions of each menu served on date and the ingredient
// quantities they need.
func (s *MenuService) KitchenSummary(ctx context.Context, date string) (*types.KitchenSummary, error) {
	if date == "" {
		date = s.today()
	} else if _, err := parseDate(date); err != nil {
		return nil, err
	}

	var counts []struct {
		MenuType string
		Total    int
	}
	if err := s.db.WithContext(ctx).Model(&models.MenuChoice{}).
		Select("menu_type AS menu_type, COUNT(*) AS total").
		Where("date = ?", date).
		Group("menu_type").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count choices: %w", err)
	}
	portions := make(map[string]int, len(counts))
	summary := &types.KitchenSummary{Date: date, Menus: []types.KitchenMenuSummary{}}
	for _, c := range counts {
		portions[c.MenuType] = c.Total
		summary.TotalStudents += c.Total
	}

	var menus []models.Menu
	if err := s.db.WithContext(ctx).Where("date = ?", date).Order("menu_type ASC").Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("failed to load menus: %w", err)
	}
	for _, m := range menus {
		batch, err := s.ingredients.ResolveBatch(ctx, m.Ingredients)
		if err != nil {
			return nil, err
		}
		n := portions[m.MenuType]
		reqs := make([]types.IngredientRequirement, len(batch.Validated))
		for i, in := range batch.Validated {
			reqs[i] = types.IngredientRequirement{Ingredient: in.Name, Portions: n}
		}
		summary.Menus = append(summary.Menus, types.KitchenMenuSummary{
			MenuType:           m.MenuType,
			MenuName:           m.Name,
			Portions:           n,
			Ingredients:        reqs,
			UnknownIngredients: batch.Unknown,
		})
	}
	return summary, nil
}

// AutoAssignSafe gives every student with a non-empty allergen profile the safe menu
// on each weekday of the week containing weekStart that has one, unless the student
// already chose for that day. Running it twice assigns nothing new.
func (s *MenuService) AutoAssignSafe(ctx context.Context, weekStart time.Time) (*types.AutoAssignResult, error) {
	monday := WeekStart(weekStart)
	weekdays := make([]string, 5)
	for i := range weekdays {
		weekdays[i] = monday.AddDate(0, 0, i).Format(models.DateLayout)
	}
	result := &types.AutoAssignResult{WeekStart: weekdays[0]}

	var safeDates []string
	if err := s.db.WithContext(ctx).Model(&models.Menu{}).
		Where("menu_type = ? AND date IN ?", models.MenuTypeSafe, weekdays).
		Pluck("date", &safeDates).Error; err != nil {
		return nil, fmt.Errorf("failed to load safe menus: %w", err)
	}
	if len(safeDates) == 0 {
		return result, nil
	}
	sort.Strings(safeDates)

	var students []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", models.RoleStudent).Order("created_at ASC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	for _, student := range students {
		userAllergens, err := s.profiles.LoadUserAllergens(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		if len(userAllergens) == 0 {
			continue
		}
		result.Students++

		for _, date := range safeDates {
			choice := models.MenuChoice{
				UserID:       student.ID,
				Date:         date,
				MenuType:     models.MenuTypeSafe,
				AutoAssigned: true,
			}
			res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&choice)
			if res.Error != nil {
				return nil, fmt.Errorf("failed to assign safe menu: %w", res.Error)
			}
			result.Assigned += int(res.RowsAffected)
		}
	}

	s.log.Info("Assigned safe menus",
		zap.String("week_start", result.WeekStart),
		zap.Int("students", result.Students),
		zap.Int("assigned", result.Assigned),
	)
	return result, nil
}

// AutoAssignWeek runs AutoAssignSafe for the week containing start, or for next week
// when start is empty.
func (s *MenuService) AutoAssignWeek(ctx context.Context, start string) (*types.AutoAssignResult, error) {
	if start == "" {
		return s.AutoAssignSafe(ctx, WeekStart(s.now()).AddDate(0, 0, 7))
	}
	t, err := parseDate(start)
	if err != nil {
		return nil, err
	}
	return s.AutoAssignSafe(ctx, t)
}
