package ui

import (
	"github.com/next-levels/go-cms/auth"
	"github.com/next-levels/go-cms/database/model"
)

// UserForm is the create and edit form of the user admin. On edit the
// password fields are optional.
func UserForm(user *model.User) Form {
	isNew := user == nil || user.Id == ""
	f := Form{
		Method:      "post",
		SubmitLabel: "save",
		CancelURL:   "/admin/users",
		Fields: []Field{
			{Name: "name", Label: "pages.users.name", Type: FieldText, Required: true},
			{Name: "email", Label: "pages.users.email", Type: FieldEmail, Required: true},
			{Name: "password", Label: "pages.users.password", Type: FieldPassword, Required: isNew},
			{Name: "passwordConfirmation", Label: "pages.users.passwordConfirmation", Type: FieldPassword, Required: isNew},
		},
	}
	if isNew {
		f.Title = "pages.users.new"
		f.Action = "/admin/users/new"
		return f
	}

	f.Title = "pages.users.edit"
	f.Action = "/admin/users/" + user.Id
	f.Fields[2].Description = "pages.users.passwordHint"
	roles := make([]Option, 0, len(auth.Roles()))
	for _, r := range auth.Roles() {
		roles = append(roles, Option{Value: string(r), Label: string(r)})
	}
	f.Fields = append(f.Fields, Field{Name: "role", Label: "pages.users.role", Type: FieldSelect, Options: roles, Required: true})
	return f.WithValues(map[string]string{
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
	})
}

// OrderForm is the form for entering a tree purchase.
func OrderForm() Form {
	return Form{
		Title:       "pages.orders.new",
		Action:      "/admin/orders/new",
		Method:      "post",
		SubmitLabel: "save",
		CancelURL:   "/admin/orders",
		Fields: []Field{
			{Name: "firstName", Label: "pages.orders.firstName", Type: FieldText, Required: true},
			{Name: "lastName", Label: "pages.orders.lastName", Type: FieldText, Required: true},
			{Name: "email", Label: "pages.orders.email", Type: FieldEmail, Required: true},
			{Name: "phone", Label: "pages.orders.phone", Type: FieldText},
			{Name: "street", Label: "pages.orders.street", Type: FieldText},
			{Name: "houseNumber", Label: "pages.orders.houseNumber", Type: FieldText},
			{Name: "zip", Label: "pages.orders.zip", Type: FieldText},
			{Name: "city", Label: "pages.orders.city", Type: FieldText},
			{Name: "amount", Label: "pages.orders.amount", Type: FieldNumber, Required: true, Value: "1"},
			{Name: "boughtAt", Label: "pages.orders.boughtAt", Type: FieldDate, Required: true},
		},
	}
}
