package logic

import "editgrep/internal/domain"

// EntityStore provides access to the local entity directory
type EntityStore interface {
	GetEntity(id string) *domain.Entity
	GetAllEntities() map[string]*domain.Entity
	AddEntity(entity *domain.Entity)
	UpdateEntity(entity *domain.Entity)
	RemoveEntity(id string)
}

// OpenFileStore tracks which collection files are open and at which line
type OpenFileStore interface {
	GetOpenFile(path string) *OpenFile
	GetAllOpenFiles() map[string]*OpenFile
	AddOpenFile(file *OpenFile)
	RemoveOpenFile(path string)
}

// OpenFile is a collection file loaded into the editor
type OpenFile struct {
	Path string
	Line int
}
