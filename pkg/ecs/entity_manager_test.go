package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testVelocityComponent struct {
	VX, VY float64
}

type testEmitterComponent struct {
	Rate float32
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	// 添加组件
	pos := &testPositionComponent{X: 100, Y: 200}
	em.AddComponent(id, pos)

	// 获取组件
	comp, found := em.GetComponent(id, reflect.TypeOf(&testPositionComponent{}))
	if !found {
		t.Error("Component should be found")
	}

	retrieved := comp.(*testPositionComponent)
	if retrieved.X != 100 || retrieved.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", retrieved.X, retrieved.Y)
	}
}

func TestHasComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	// 未添加组件前应该返回false
	if em.HasComponent(id, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("Should not have component before adding")
	}

	// 添加组件
	em.AddComponent(id, &testPositionComponent{})

	// 添加后应该返回true
	if !em.HasComponent(id, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("Should have component after adding")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{})

	// 标记删除
	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !em.HasComponent(id, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("Entity should still exist before cleanup")
	}

	// 清理后实体消失
	em.RemoveMarkedEntities()
	if em.HasComponent(id, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("Entity should be removed after cleanup")
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	// 创建不同组件组合的实体
	id1 := em.CreateEntity()
	em.AddComponent(id1, &testPositionComponent{})
	em.AddComponent(id1, &testVelocityComponent{})

	id2 := em.CreateEntity()
	em.AddComponent(id2, &testPositionComponent{})

	id3 := em.CreateEntity()
	em.AddComponent(id3, &testVelocityComponent{})

	// 查询拥有 Position+Velocity 的实体
	entities := em.GetEntitiesWith(
		reflect.TypeOf(&testPositionComponent{}),
		reflect.TypeOf(&testVelocityComponent{}),
	)

	if len(entities) != 1 {
		t.Errorf("Expected 1 entity with both components, got %d", len(entities))
	}

	if len(entities) > 0 && entities[0] != id1 {
		t.Error("Query should return only id1")
	}

	// 查询只拥有 Position 的实体
	posEntities := em.GetEntitiesWith(reflect.TypeOf(&testPositionComponent{}))
	if len(posEntities) != 2 {
		t.Errorf("Expected 2 entities with Position component, got %d", len(posEntities))
	}
}

func TestMultipleComponentTypes(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	// 添加多个不同类型的组件
	em.AddComponent(id, &testPositionComponent{X: 10, Y: 20})
	em.AddComponent(id, &testVelocityComponent{VX: 5, VY: 10})

	// 验证两个组件都能正确获取
	posComp, found := em.GetComponent(id, reflect.TypeOf(&testPositionComponent{}))
	if !found {
		t.Error("Position component should be found")
	}
	pos := posComp.(*testPositionComponent)
	if pos.X != 10 || pos.Y != 20 {
		t.Error("Position component data mismatch")
	}

	velComp, found := em.GetComponent(id, reflect.TypeOf(&testVelocityComponent{}))
	if !found {
		t.Error("Velocity component should be found")
	}
	vel := velComp.(*testVelocityComponent)
	if vel.VX != 5 || vel.VY != 10 {
		t.Error("Velocity component data mismatch")
	}
}

func TestDestroyMultipleEntities(t *testing.T) {
	em := NewEntityManager()

	// 创建多个实体
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()
	id3 := em.CreateEntity()

	em.AddComponent(id1, &testPositionComponent{})
	em.AddComponent(id2, &testPositionComponent{})
	em.AddComponent(id3, &testPositionComponent{})

	// 标记两个实体删除
	em.DestroyEntity(id1)
	em.DestroyEntity(id3)

	// 清理
	em.RemoveMarkedEntities()

	// 验证只有id2存在
	if em.HasComponent(id1, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("id1 should be removed")
	}
	if !em.HasComponent(id2, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("id2 should still exist")
	}
	if em.HasComponent(id3, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("id3 should be removed")
	}
}

func TestExistsAndEntityCount(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	// 没有组件的实体也存在
	if !em.Exists(id) {
		t.Error("Entity without components should exist")
	}
	if em.Exists(InvalidEntity) {
		t.Error("InvalidEntity should never exist")
	}
	if em.EntityCount() != 1 {
		t.Errorf("EntityCount() = %d, want 1", em.EntityCount())
	}

	em.DestroyEntity(id)
	em.DestroyEntity(id) // 重复标记不应出错
	if !em.Exists(id) {
		t.Error("Entity should still exist before cleanup")
	}
	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be gone after cleanup")
	}
	if em.EntityCount() != 0 {
		t.Errorf("EntityCount() = %d, want 0", em.EntityCount())
	}
}

func TestAddComponentToMissingEntity(t *testing.T) {
	em := NewEntityManager()
	em.AddComponent(EntityID(42), &testPositionComponent{})
	if em.Exists(EntityID(42)) {
		t.Error("AddComponent must not create entities")
	}
}

func TestGenericQueries(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	em.AddComponent(id1, &testPositionComponent{X: 1})
	em.AddComponent(id1, &testVelocityComponent{VX: 2})
	em.AddComponent(id1, &testEmitterComponent{Rate: 3})

	id2 := em.CreateEntity()
	em.AddComponent(id2, &testPositionComponent{X: 4})

	em.CreateEntity() // 无组件实体不会出现在任何查询结果中

	if got := GetEntitiesWith1[*testPositionComponent](em); len(got) != 2 || got[0] != id1 || got[1] != id2 {
		t.Errorf("GetEntitiesWith1 = %v, want [%d %d]", got, id1, id2)
	}
	if got := GetEntitiesWith2[*testPositionComponent, *testVelocityComponent](em); len(got) != 1 || got[0] != id1 {
		t.Errorf("GetEntitiesWith2 = %v, want [%d]", got, id1)
	}
	if got := GetEntitiesWith3[*testPositionComponent, *testVelocityComponent, *testEmitterComponent](em); len(got) != 1 {
		t.Errorf("GetEntitiesWith3 = %v, want one entity", got)
	}

	pos, ok := GetComponent[*testPositionComponent](em, id2)
	if !ok || pos.X != 4 {
		t.Errorf("GetComponent = %v, %v", pos, ok)
	}
	if _, ok := GetComponent[*testVelocityComponent](em, id2); ok {
		t.Error("id2 has no velocity component")
	}
	if !HasComponent[*testEmitterComponent](em, id1) {
		t.Error("id1 should have emitter component")
	}

	RemoveComponent[*testEmitterComponent](em, id1)
	if HasComponent[*testEmitterComponent](em, id1) {
		t.Error("emitter component should be removed")
	}
}

func TestQueryOrderIsAscending(t *testing.T) {
	em := NewEntityManager()
	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testPositionComponent{})
	}

	ids := em.GetEntitiesWith(reflect.TypeOf(&testPositionComponent{}))
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("query result not ascending at %d: %v", i, ids)
		}
	}
}

func TestSetParent(t *testing.T) {
	em := NewEntityManager()
	parent := em.CreateEntity()
	other := em.CreateEntity()
	child := em.CreateEntity()

	em.SetParent(child, parent)
	if p, ok := em.Parent(child); !ok || p != parent {
		t.Errorf("Parent() = %d, %v, want %d", p, ok, parent)
	}
	if got := em.Children(parent); len(got) != 1 || got[0] != child {
		t.Errorf("Children() = %v, want [%d]", got, child)
	}

	// 重新挂载会离开原父实体
	em.SetParent(child, other)
	if em.ChildCount(parent) != 0 {
		t.Errorf("old parent still has %d children", em.ChildCount(parent))
	}
	if p, _ := em.Parent(child); p != other {
		t.Errorf("Parent() = %d, want %d", p, other)
	}

	// 不能挂到自己或不存在的实体上
	em.SetParent(child, child)
	if _, ok := em.Parent(child); ok {
		t.Error("self-parenting should only detach")
	}
	em.SetParent(child, EntityID(999))
	if _, ok := em.Parent(child); ok {
		t.Error("parenting to a missing entity should only detach")
	}
}

func TestDestroyParentOrphansChildren(t *testing.T) {
	em := NewEntityManager()
	parent := em.CreateEntity()
	c1 := em.CreateEntity()
	c2 := em.CreateEntity()
	em.SetParent(c1, parent)
	em.SetParent(c2, parent)

	em.DestroyEntity(parent)
	em.RemoveMarkedEntities()

	for _, c := range []EntityID{c1, c2} {
		if !em.Exists(c) {
			t.Errorf("child %d should survive its parent", c)
		}
		if _, ok := em.Parent(c); ok {
			t.Errorf("child %d should be detached", c)
		}
	}

	// 删除子实体会从父实体的子集合中移除
	p2 := em.CreateEntity()
	em.SetParent(c1, p2)
	em.DestroyEntity(c1)
	em.RemoveMarkedEntities()
	if em.ChildCount(p2) != 0 {
		t.Errorf("ChildCount() = %d after destroying the child", em.ChildCount(p2))
	}
}
