package core

import "homagio/pkg/domain"

type (
	EntityType         = domain.EntityType
	PhotoTab           = domain.PhotoTab
	Dataset            = domain.Dataset
	User               = domain.User
	Session            = domain.Session
	House              = domain.House
	Address            = domain.Address
	Budget             = domain.Budget
	Photo              = domain.Photo
	Item               = domain.Item
	ShoppingBucket     = domain.ShoppingBucket
	ShoppingRow        = domain.ShoppingRow
	ShoppingDraft      = domain.ShoppingDraft
	ShoppingList       = domain.ShoppingList
	Settings           = domain.Settings
	NotFoundError      = domain.NotFoundError
	InvalidEntityError = domain.InvalidEntityError
	ParseError         = domain.ParseError
)

const (
	EntityUser           = domain.EntityUser
	EntityHouse          = domain.EntityHouse
	EntityPhoto          = domain.EntityPhoto
	EntityItem           = domain.EntityItem
	EntityShoppingRow    = domain.EntityShoppingRow
	EntityShoppingBucket = domain.EntityShoppingBucket
	EntityDataset        = domain.EntityDataset
)

const (
	TabInterior = domain.TabInterior
	TabExterior = domain.TabExterior
)
