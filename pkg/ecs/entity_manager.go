package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符
type EntityID uint64

// InvalidEntity 表示“没有实体”
const InvalidEntity EntityID = 0

// EntityManager 管理所有实体、组件以及父子关系
//
// 非并发安全：所有修改都应在同一个 goroutine（帧更新）中完成。
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	// 没有组件的实体对应 nil map（粒子实体通常如此，避免每个粒子分配一次 map）
	components map[EntityID]map[reflect.Type]interface{}
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID

	parents  map[EntityID]EntityID
	children map[EntityID]map[EntityID]struct{}
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]interface{}),
		entitiesToDestroy: make([]EntityID, 0),
		parents:           make(map[EntityID]EntityID),
		children:          make(map[EntityID]map[EntityID]struct{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = nil
	return id
}

// Exists 检查实体是否存在（已标记删除但尚未清理的实体仍然存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// EntityCount 返回当前存活的实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.components)
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	compMap, exists := em.components[id]
	if !exists {
		return
	}
	if compMap == nil {
		compMap = make(map[reflect.Type]interface{}, 4)
		em.components[id] = compMap
	}
	compMap[reflect.TypeOf(component)] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// RemoveMarkedEntities 清理所有标记删除的实体
//
// 被删除实体的子实体会解除父子关系但不会被删除；
// 子实体是否随父实体一起删除由调用方决定。
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		if _, ok := em.components[id]; !ok {
			continue // 重复标记
		}
		delete(em.components, id)
		em.detach(id)
		for child := range em.children[id] {
			delete(em.parents, child)
		}
		delete(em.children, id)
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表，按ID升序（即创建顺序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	// map 遍历顺序随机，排序保证系统按确定顺序消耗随机数
	slices.Sort(result)
	return result
}

// SetParent 把 child 挂到 parent 下
// 已有父实体时会先解除原关系；parent 为 InvalidEntity 时仅解除关系
func (em *EntityManager) SetParent(child, parent EntityID) {
	if !em.Exists(child) {
		return
	}
	em.detach(child)
	if parent == InvalidEntity || parent == child || !em.Exists(parent) {
		return
	}
	em.parents[child] = parent
	set := em.children[parent]
	if set == nil {
		set = make(map[EntityID]struct{})
		em.children[parent] = set
	}
	set[child] = struct{}{}
}

// Parent 返回实体的父实体
func (em *EntityManager) Parent(id EntityID) (EntityID, bool) {
	p, ok := em.parents[id]
	return p, ok
}

// Children 返回实体的子实体，按ID升序
func (em *EntityManager) Children(id EntityID) []EntityID {
	set := em.children[id]
	if len(set) == 0 {
		return nil
	}
	out := make([]EntityID, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// ChildCount 返回子实体数量
func (em *EntityManager) ChildCount(id EntityID) int {
	return len(em.children[id])
}

func (em *EntityManager) detach(child EntityID) {
	p, ok := em.parents[child]
	if !ok {
		return
	}
	delete(em.parents, child)
	if set := em.children[p]; set != nil {
		delete(set, child)
		if len(set) == 0 {
			delete(em.children, p)
		}
	}
}
