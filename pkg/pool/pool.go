// Package pool предоставляет типизированную обёртку над sync.Pool
// для объектов, умеющих сбрасывать своё состояние.
package pool

import "sync"

// Resetter — объект, который можно вернуть в исходное состояние перед повторным использованием.
type Resetter interface {
	Reset()
}

// Pool — типизированный пул объектов. Put вызывает Reset перед возвратом объекта в пул.
type Pool[T Resetter] struct {
	p sync.Pool
}

// New создаёт пул, использующий newFn для создания новых объектов.
func New[T Resetter](newFn func() T) *Pool[T] {
	return &Pool[T]{
		p: sync.Pool{
			New: func() any { return newFn() },
		},
	}
}

// Get возвращает объект из пула или новый объект.
func (p *Pool[T]) Get() T {
	return p.p.Get().(T)
}

// Put сбрасывает объект и возвращает его в пул.
func (p *Pool[T]) Put(x T) {
	x.Reset()
	p.p.Put(x)
}
