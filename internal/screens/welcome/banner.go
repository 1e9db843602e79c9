package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/yufin/yufin/internal/ui/theme"
)

const bannerArt = `
██╗   ██╗██╗   ██╗███████╗██╗███╗   ██╗
╚██╗ ██╔╝██║   ██║██╔════╝██║████╗  ██║
 ╚████╔╝ ██║   ██║█████╗  ██║██╔██╗ ██║
  ╚██╔╝  ██║   ██║██╔══╝  ██║██║╚██╗██║
   ██║   ╚██████╔╝██║     ██║██║ ╚████║
   ╚═╝    ╚═════╝ ╚═╝     ╚═╝╚═╝  ╚═══╝`

const bannerCompact = "Y ü F I N"

// RenderBanner returns the YüFin banner, falling back to a single line on
// terminals narrower than the block art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < 44 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
