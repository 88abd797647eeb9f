package models

import "encoding/json"

// Optional отличает отсутствующее в запросе поле от явно переданного null.
// Используется для частичного обновления: не переданные поля не трогаются.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some возвращает заполненное значение
func Some[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Value: value}
}

// Null возвращает явно переданный null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present сообщает, что поле передано и не равно null
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr возвращает указатель на значение или nil для null
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
