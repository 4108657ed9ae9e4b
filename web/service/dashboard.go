package service

import (
	"github.com/next-levels/go-cms/database/model"
)

// Dashboard is the overview shown to admins.
type Dashboard struct {
	Users      map[model.Role]int64 `json:"users"`
	TotalUsers int64                `json:"totalUsers"`
	Orders     *OrderStats          `json:"orders"`
	Server     *Status              `json:"server"`
}

type DashboardService struct {
	userService   UserService
	orderService  OrderService
	serverService ServerService
}

func (s *DashboardService) GetDashboard() (*Dashboard, error) {
	users, err := s.userService.CountByRole()
	if err != nil {
		return nil, err
	}
	orders, err := s.orderService.Stats()
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Users: users, Orders: orders, Server: s.serverService.GetStatus()}
	for _, n := range users {
		d.TotalUsers += n
	}
	return d, nil
}
