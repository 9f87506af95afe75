package registry

// Repository defines the storage operations required by the HTTP layer.
type Repository interface {
	Create(id int64, name string) (Item, error)
	Get(id int64) (Item, error)
	Update(id int64, name string) (Item, error)
	Delete(id int64) error
	List() []Item
	Len() int
	Events(id int64) ([]ItemEvent, error)
}

var _ Repository = (*Store)(nil)
