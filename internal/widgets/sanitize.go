package widgets

// Sanitizer cleans user-authored values. *sanitize.Policy satisfies it.
type Sanitizer interface {
	HTML(fragment string) string
	URL(raw string) string
	Styles(styles map[string]string) map[string]string
}

// Sanitize returns a copy of the tree with HTML-bearing attributes, link
// targets and style maps passed through s. Unknown types keep their raw
// attributes and only have their styles cleaned.
func Sanitize(nodes []Node, s Sanitizer) []Node {
	out := CloneAll(nodes)
	if s == nil {
		return out
	}
	sanitizeNodes(out, s)
	return out
}

func sanitizeNodes(nodes []Node, s Sanitizer) {
	for i := range nodes {
		node := &nodes[i]
		if node.Styles != nil {
			node.Styles = s.Styles(node.Styles)
		}
		if node.Attributes != nil {
			node.Attributes = sanitizeAttributes(node.Attributes, s)
		}
		if len(node.Children) > 0 {
			sanitizeNodes(node.Children, s)
		}
	}
}

func sanitizeAttributes(attrs Attributes, s Sanitizer) Attributes {
	switch a := attrs.(type) {
	case HeadingAttributes:
		a.Content = s.HTML(a.Content)
		return a
	case RichTextAttributes:
		a.Content = s.HTML(a.Content)
		return a
	case HTMLAttributes:
		a.Content = s.HTML(a.Content)
		return a
	case ButtonAttributes:
		a.URL = s.URL(a.URL)
		a.DropdownItems = sanitizeDropdown(a.DropdownItems, s)
		return a
	case LinkAttributes:
		a.URL = s.URL(a.URL)
		a.DropdownItems = sanitizeDropdown(a.DropdownItems, s)
		return a
	case CardAttributes:
		a.Title = s.HTML(a.Title)
		a.Content = s.HTML(a.Content)
		a.Footer = s.HTML(a.Footer)
		a.ImageURL = s.URL(a.ImageURL)
		a.ButtonURL = s.URL(a.ButtonURL)
		return a
	case AlertAttributes:
		a.Content = s.HTML(a.Content)
		return a
	case ImageAttributes:
		a.Src = s.URL(a.Src)
		a.Link = s.URL(a.Link)
		return a
	case VideoAttributes:
		a.Src = s.URL(a.Src)
		a.Poster = s.URL(a.Poster)
		return a
	case AccordionAttributes:
		if a.Items != nil {
			items := make([]AccordionItem, len(a.Items))
			for i, item := range a.Items {
				item.Title = s.HTML(item.Title)
				item.Content = s.HTML(item.Content)
				items[i] = item
			}
			a.Items = items
		}
		return a
	case BreadcrumbAttributes:
		if a.Items != nil {
			items := make([]BreadcrumbItem, len(a.Items))
			for i, item := range a.Items {
				item.URL = s.URL(item.URL)
				items[i] = item
			}
			a.Items = items
		}
		return a
	case CollapseAttributes:
		a.Content = s.HTML(a.Content)
		return a
	case TabsAttributes:
		if a.Tabs != nil {
			tabs := make([]TabItem, len(a.Tabs))
			for i, tab := range a.Tabs {
				tab.Title = s.HTML(tab.Title)
				tab.Content = s.HTML(tab.Content)
				tabs[i] = tab
			}
			a.Tabs = tabs
		}
		return a
	case ToastAttributes:
		a.Content = s.HTML(a.Content)
		return a
	case SocialAttributes:
		if a.Platforms != nil {
			platforms := make([]SocialLink, len(a.Platforms))
			for i, platform := range a.Platforms {
				platform.URL = s.URL(platform.URL)
				platforms[i] = platform
			}
			a.Platforms = platforms
		}
		return a
	default:
		return attrs
	}
}

func sanitizeDropdown(items []DropdownItem, s Sanitizer) []DropdownItem {
	if items == nil {
		return nil
	}
	out := make([]DropdownItem, len(items))
	for i, item := range items {
		item.Text = s.HTML(item.Text)
		item.URL = s.URL(item.URL)
		if item.NestedItems != nil {
			nested := make([]DropdownLink, len(item.NestedItems))
			for j, link := range item.NestedItems {
				link.Text = s.HTML(link.Text)
				link.URL = s.URL(link.URL)
				nested[j] = link
			}
			item.NestedItems = nested
		}
		out[i] = item
	}
	return out
}
