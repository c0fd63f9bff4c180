package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"canteen/internal/model"
)

var defaultMenu = []model.MenuItem{
	{ID: "idli", Name: "Idli", Description: "Soft steamed rice cakes with sambar and chutney", Price: 50, Category: "veg"},
	{ID: "dosa", Name: "Dosa", Description: "Crispy rice crepe with chutney", Price: 60, Category: "veg"},
	{ID: "pongal", Name: "Pongal", Description: "Rice and lentils tempered with pepper and ghee", Price: 55, Category: "veg"},
	{ID: "uttapam", Name: "Uttapam", Description: "Thick pancake topped with onion and tomato", Price: 65, Category: "veg"},
	{ID: "medu-vada", Name: "Medu Vada", Description: "Crispy lentil fritters", Price: 40, Category: "veg"},
	{ID: "chikhalali", Name: "Chikhalali", Description: "Crunchy snack", Price: 45, Category: "veg"},
	{ID: "veg-biryani", Name: "Vegetable Biryani", Description: "Fragrant rice with mixed vegetables", Price: 100, Category: "veg"},
	{ID: "sambar-rice", Name: "Sambar Rice", Description: "Rice mixed with lentil stew", Price: 55, Category: "veg"},
	{ID: "chicken-biryani", Name: "Chicken Biryani", Description: "Dum biryani with tender chicken", Price: 150, Category: "nonveg"},
	{ID: "chicken-meals", Name: "Chicken Meals", Description: "Rice, chicken curry and sides", Price: 120, Category: "nonveg"},
	{ID: "chicken-dosa", Name: "Chicken Dosa", Description: "Dosa stuffed with spiced chicken", Price: 90, Category: "nonveg"},
	{ID: "mutton-biryani", Name: "Mutton Biryani", Description: "Slow cooked mutton biryani", Price: 180, Category: "nonveg"},
	{ID: "fish-fry", Name: "Fish Fry", Description: "Spiced shallow fried fish", Price: 130, Category: "nonveg"},
	{ID: "chicken-tikka", Name: "Chicken Tikka", Description: "Char grilled chicken pieces", Price: 110, Category: "nonveg"},
	{ID: "egg-biryani", Name: "Egg Biryani", Description: "Biryani with boiled eggs", Price: 80, Category: "nonveg"},
	{ID: "chicken-curry-rice", Name: "Chicken Curry Rice", Description: "Rice with home style chicken curry", Price: 100, Category: "nonveg"},
}

type MenuService struct {
	items []model.MenuItem
	byID  map[string]model.MenuItem
}

func NewMenuService(items []model.MenuItem) (*MenuService, error) {
	if items == nil {
		items = defaultMenu
	}
	s := &MenuService{items: items, byID: make(map[string]model.MenuItem, len(items))}
	for _, it := range items {
		if it.ID == "" || it.Name == "" {
			return nil, fmt.Errorf("menu item %q: id and name are required", it.Name)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("menu item %s: negative price", it.ID)
		}
		if _, dup := s.byID[it.ID]; dup {
			return nil, fmt.Errorf("menu item %s: duplicate id", it.ID)
		}
		s.byID[it.ID] = it
	}
	return s, nil
}

// LoadMenuFile reads a YAML catalog of the form `items: [{id, name, price, category}]`.
func LoadMenuFile(path string) ([]model.MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	var doc struct {
		Items []model.MenuItem `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("menu file %s has no items", path)
	}
	return doc.Items, nil
}

// List returns the catalog, optionally narrowed to one category.
func (s *MenuService) List(category string) []model.MenuItem {
	out := make([]model.MenuItem, 0, len(s.items))
	for _, it := range s.items {
		if category == "" || strings.EqualFold(it.Category, category) {
			out = append(out, it)
		}
	}
	return out
}

func (s *MenuService) Lookup(id string) (model.MenuItem, bool) {
	it, ok := s.byID[id]
	return it, ok
}
