package reflectprovider

import "reflect"

// containerOf is populated by RegisterContainer and answers the
// repeatable.RepeatableSource questions, so callers whose repeatable
// annotations use this provider's own @Repeatable analogue don't have to
// construct repeatable.Containers pairs by hand.
type containerOf struct {
	container  string
	repeatable string
}

// RegisterContainer declares that container is the repeatable-container
// type for repeatableType, the same pairing repeatable.Of would otherwise
// require a caller to assert by hand.
func (p *Provider) RegisterContainer(container, repeatableType reflect.Type) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.containers == nil {
		p.containers = map[string]containerOf{}
	}
	cName, rName := typeName(container), typeName(repeatableType)
	p.containers[cName] = containerOf{container: cName, repeatable: rName}
	p.containers[rName] = containerOf{container: cName, repeatable: rName}
}

// RepeatableOfContainer implements repeatable.RepeatableSource.
func (p *Provider) RepeatableOfContainer(containerType string) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.containers[containerType]; ok && c.container == containerType {
		return c.repeatable, true, nil
	}
	return "", false, nil
}

// RepeatableContainerOf implements repeatable.RepeatableSource.
func (p *Provider) RepeatableContainerOf(repeatableType string) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.containers[repeatableType]; ok && c.repeatable == repeatableType {
		return c.container, true, nil
	}
	return "", false, nil
}
