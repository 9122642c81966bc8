package container

// IIncrementalItem 支持增量更新的元素接口
// 功能：定义支持增量删除的元素必须实现的方法
// 说明：用于增量数组中元素的索引管理，确保元素能够正确跟踪自己在数组中的位置
type IIncrementalItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类
// 说明：可以作为其他结构体的嵌入字段，快速实现IIncrementalItem接口
type IncrementalItemBase struct {
	index int // 元素在数组中的索引
}

// Index 获取元素的索引
func (b *IncrementalItemBase) Index() int {
	return b.index
}

// SetIndex 设置元素的索引
func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组，支持延迟删除的活跃元素集合
// 功能：比赛期间完赛或退赛的车辆在更新阶段被标记删除，
// 在下一个准备阶段统一从活跃数组中移出，保证一步之内遍历顺序稳定
// 说明：元素集合在构造后只减不增（赛中不会加入新车）
type IncrementalArray[T IIncrementalItem] struct {
	data   []T // 活跃元素数组
	remove []T // 待删除的元素列表
}

// NewIncrementalArray 创建增量数组
// 参数：items-初始元素集合
func NewIncrementalArray[T IIncrementalItem](items []T) *IncrementalArray[T] {
	a := &IncrementalArray[T]{
		data:   make([]T, len(items)),
		remove: make([]T, 0),
	}
	copy(a.data, items)
	for i, x := range a.data {
		x.SetIndex(i)
	}
	return a
}

// Len 获取当前活跃元素数量
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 获取活跃元素数组
// 说明：返回内部切片，调用方只应遍历，不应修改
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Remove 删除元素（等到Prepare时才会真正删除）
func (a *IncrementalArray[T]) Remove(value T) {
	a.remove = append(a.remove, value)
}

// Prepare 执行增量删除
// 算法说明：对每个待删除元素，用数组末尾元素换入其位置并截断数组，
// 同步维护被移动元素的索引；删除顺序与标记顺序无关
func (a *IncrementalArray[T]) Prepare() {
	for _, x := range a.remove {
		ind := x.Index()
		last := len(a.data) - 1
		if ind < 0 || ind > last {
			continue
		}
		a.data[ind] = a.data[last]
		a.data[ind].SetIndex(ind)
		a.data = a.data[:last]
		x.SetIndex(-1)
	}
	a.remove = a.remove[:0]
}
