package service

import (
	"context"
	"strings"
	"time"

	"github.com/next-levels/go-cms/database"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/crypto"
	"github.com/next-levels/go-cms/util/random"
	"github.com/next-levels/go-cms/web/entity"

	"gorm.io/gorm"
)

// OrderInput is a tree purchase as entered by an admin.
type OrderInput struct {
	FirstName   string    `json:"firstName" form:"firstName" validate:"required"`
	LastName    string    `json:"lastName" form:"lastName" validate:"required"`
	Street      *string   `json:"street" form:"street" validate:"omitnil,min=1"`
	HouseNumber *string   `json:"houseNumber" form:"houseNumber" validate:"omitnil,min=1"`
	Zip         *string   `json:"zip" form:"zip" validate:"omitnil,min=1"`
	City        *string   `json:"city" form:"city" validate:"omitnil,min=1"`
	BoughtAt    time.Time `json:"boughtAt" form:"boughtAt" time_format:"2006-01-02" validate:"required"`
	Amount      int       `json:"amount" form:"amount" validate:"min=1"`
	Email       string    `json:"email" form:"email" validate:"required,email"`
	Phone       *string   `json:"phone" form:"phone" validate:"omitnil,min=1"`
	UserId      *string   `json:"userId" form:"userId"`
}

// OrderResult reports the side effects of CreateOrder.
type OrderResult struct {
	Order       *model.Order `json:"order"`
	User        *model.User  `json:"user"`
	UserCreated bool         `json:"userCreated"`
	MailSent    bool         `json:"mailSent"`
	MailError   string       `json:"mailError,omitempty"`
}

// OrderStats sums up all orders for the dashboard.
type OrderStats struct {
	Orders   int64 `json:"orders"`
	Trees    int64 `json:"trees"`
	Hectares int   `json:"hectares"`
}

var orderSortColumns = map[string]string{
	"boughtAt":  "bought_at",
	"createdAt": "created_at",
	"amount":    "amount",
	"lastName":  "last_name",
	"email":     "email",
}

type OrderService struct {
	resetService PasswordResetService
	mailService  MailService
	tgbot        Tgbot
}

// CreateOrder stores the order for the buyer's account, creating the account
// when the e-mail is new, and mails a confirmation with a set-password link.
// A failed mail does not fail the order.
func (s *OrderService) CreateOrder(ctx context.Context, in OrderInput) (*OrderResult, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	result := &OrderResult{}
	email := strings.TrimSpace(in.Email)

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		user := &model.User{}
		err := tx.Where("email = ?", email).First(user).Error
		if database.IsNotFound(err) {
			hash, err := crypto.HashPasswordAsBcrypt(random.Seq(32))
			if err != nil {
				return err
			}
			user = &model.User{
				Name:     strings.TrimSpace(in.FirstName + " " + in.LastName),
				Email:    email,
				Password: hash,
				Role:     model.RoleUser,
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			result.UserCreated = true
		} else if err != nil {
			return err
		}

		order := &model.Order{
			FirstName:   strings.TrimSpace(in.FirstName),
			LastName:    strings.TrimSpace(in.LastName),
			Street:      in.Street,
			HouseNumber: in.HouseNumber,
			Zip:         in.Zip,
			City:        in.City,
			Email:       email,
			Phone:       in.Phone,
			Amount:      in.Amount,
			BoughtAt:    in.BoughtAt,
			UserId:      &user.Id,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		result.Order = order
		result.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("order %s with %d trees created for %s", result.Order.Id, result.Order.Amount, email)

	token, err := s.resetService.Create(result.User.Id)
	if err == nil {
		err = s.mailService.SendOrderConfirmation(ctx, OrderEmailData{
			UserEmail:         result.User.Email,
			UserName:          result.User.Name,
			FirstName:         result.Order.FirstName,
			LastName:          result.Order.LastName,
			Street:            result.Order.Street,
			HouseNumber:       result.Order.HouseNumber,
			Zip:               result.Order.Zip,
			City:              result.Order.City,
			Phone:             result.Order.Phone,
			Amount:            result.Order.Amount,
			BoughtAt:          result.Order.BoughtAt,
			ResetPasswordLink: s.resetService.ResetURL(token),
		})
	}
	if err != nil {
		logger.Warning("order confirmation failed:", err)
		result.MailError = err.Error()
	} else {
		result.MailSent = true
	}

	s.tgbot.OrderCreated(ctx, result.Order)
	return result, nil
}

func (s *OrderService) ListOrders(q entity.PageQuery) ([]model.Order, entity.Pagination, error) {
	q = q.Normalize()
	db := database.GetDB()

	var total int64
	if err := db.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, entity.Pagination{}, err
	}
	order := "bought_at desc"
	if column, ok := orderSortColumns[q.SortBy]; ok && q.SortOrder != "" {
		order = column + " " + q.SortOrder
	}
	var orders []model.Order
	if err := db.Order(order).Offset(q.Offset()).Limit(q.PageSize).Find(&orders).Error; err != nil {
		return nil, entity.Pagination{}, err
	}
	return orders, entity.NewPagination(q, total), nil
}

func (s *OrderService) MyOrders(userID string) ([]model.Order, error) {
	var orders []model.Order
	err := database.GetDB().Where("user_id = ?", userID).Order("bought_at desc").Find(&orders).Error
	return orders, err
}

func (s *OrderService) GetOrder(id string) (*model.Order, error) {
	order := &model.Order{}
	err := database.GetDB().Where("id = ?", id).First(order).Error
	if database.IsNotFound(err) {
		return nil, ErrOrderNotFound
	} else if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(id string) error {
	res := database.GetDB().Where("id = ?", id).Delete(&model.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *OrderService) Stats() (*OrderStats, error) {
	var row struct {
		Orders int64
		Trees  int64
	}
	err := database.GetDB().Model(&model.Order{}).
		Select("COUNT(*) as orders, COALESCE(SUM(amount), 0) as trees").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &OrderStats{
		Orders:   row.Orders,
		Trees:    row.Trees,
		Hectares: CalculateHectares(int(row.Trees)),
	}, nil
}
