package storage

import (
	"sort"
	"sync"
)

// RecordConstructor is a function that creates a new instance of a specific record type
type RecordConstructor func() Record

// recordRegistry holds all registered record constructors
var (
	recordRegistry = make(map[string]RecordConstructor)
	registryMutex  sync.RWMutex
)

// RegisterRecordType registers a record constructor for a given type name
func RegisterRecordType(typeName string, constructor RecordConstructor) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	recordRegistry[typeName] = constructor
}

// CreateRecord creates a new record instance of the specified type.
// Unregistered types decode into a BaseRecord so their tags and ids survive.
func CreateRecord(typeName string) Record {
	registryMutex.RLock()
	constructor, exists := recordRegistry[typeName]
	registryMutex.RUnlock()

	if exists {
		return constructor()
	}
	return NewBaseRecord(typeName)
}

// DecodeRecord rebuilds a stored record of the given type from its JSON form
// and its tag set, which backends keep alongside the value.
func DecodeRecord(typeName string, data []byte, tags map[string]string) (Record, error) {
	record := CreateRecord(typeName)
	if err := record.FromJSON(data); err != nil {
		return nil, err
	}
	if tags != nil {
		record.SetTags(copyTags(tags))
	}
	return record, nil
}

// GetRegisteredTypes returns the registered record types in sorted order
func GetRegisteredTypes() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	types := make([]string, 0, len(recordRegistry))
	for typeName := range recordRegistry {
		types = append(types, typeName)
	}
	sort.Strings(types)
	return types
}

// RecordTypeRegistered checks if a record type is registered
func RecordTypeRegistered(typeName string) bool {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	_, exists := recordRegistry[typeName]
	return exists
}

func copyTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}
