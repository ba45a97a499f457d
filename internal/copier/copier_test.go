package copier

import (
	"fmt"
	"testing"

	"material-copier/internal/asset"
	"material-copier/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standard = fakeShaders{"Standard": {"_MainTex", "_BumpMap", "_EmissionMap"}}

func TestDiscoverNoRoot(t *testing.T) {
	sel, err := Discover(nil)
	assert.ErrorIs(t, err, ErrNoRoot)
	assert.Nil(t, sel)

	_, err = New(newFakeStore(), nil, nil).Run(nil, nil, Options{})
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestDiscoverDedupsPerNode(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", nil)
	b := s.addMaterial("M/b.mat", "Standard", nil)

	root := scene.New("Root")
	n1 := root.Add(scene.New("N1", a, nil, b, a))
	root.Add(scene.New("Empty"))
	n2 := root.Add(scene.New("N2", b))

	sel, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, sel, 2)

	assert.Same(t, n1, sel[0].Node)
	assert.Equal(t, "Root/N1", sel[0].Path)
	assert.Equal(t, []*asset.Material{a, b}, sel[0].Materials)
	assert.Equal(t, []bool{true, true}, sel[0].Selected)

	assert.Same(t, n2, sel[1].Node)
	assert.Equal(t, []*asset.Material{b}, sel[1].Materials)

	assert.Equal(t, []*asset.Material{a, b}, sel.Materials())
	assert.Equal(t, 3, sel.Count())
}

func TestDiscoverIdempotent(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", nil)
	b := s.addMaterial("M/b.mat", "Standard", nil)
	root := scene.New("Root", b)
	root.Add(scene.New("N1", a, b)).Add(scene.New("N1a", b, a))

	first, err := Discover(root)
	require.NoError(t, err)
	second, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSelectionHelpers(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", nil)
	b := s.addMaterial("M/b.mat", "Standard", nil)
	root := scene.New("Root")
	n1 := root.Add(scene.New("N1", a, b))
	n2 := root.Add(scene.New("N2", a))
	sel, err := Discover(root)
	require.NoError(t, err)

	sel.SetAll(false)
	assert.Zero(t, sel.Count())

	assert.True(t, sel.SetNode(n1, true))
	assert.True(t, sel.AllSelected(n1))
	assert.False(t, sel.IsSelected(n2, a))

	assert.True(t, sel.Set(n1, b, false))
	assert.False(t, sel.AllSelected(n1))
	assert.True(t, sel.IsSelected(n1, a))

	assert.False(t, sel.Set(n2, b, true), "b is not used on n2")
	assert.False(t, sel.SetNode(scene.New("Stranger"), true))
}

func TestSharedMaterialCopiedOnce(t *testing.T) {
	s := newFakeStore()
	shared := s.addMaterial("M/shared.mat", "Standard", nil)
	root := scene.New("Root")
	n1 := root.Add(scene.New("N1", shared))
	n2 := root.Add(scene.New("N2", shared, shared))
	n3 := root.Add(scene.New("N3", shared))
	sel, err := Discover(root)
	require.NoError(t, err)

	res, err := New(s, standard, nil).Run(root, sel, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, s.assetCopies)
	require.Len(t, res.Materials, 1)
	c := res.Materials[0].Copy
	assert.Equal(t, "RC_MatCop/Root/Materials/shared_copy.mat", c.Path)
	assert.Equal(t, []*asset.Material{c}, n1.Materials())
	assert.Equal(t, []*asset.Material{c, c}, n2.Materials())
	assert.Equal(t, []*asset.Material{c}, n3.Materials())
	assert.Equal(t, 4, res.Rebound)
}

func TestUnselectedMaterialUntouched(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", map[string]string{"_MainTex": "T/a.png"})
	b := s.addMaterial("M/b.mat", "Standard", map[string]string{"_MainTex": "T/b.png"})
	s.addTexture("T/a.png")
	s.addTexture("T/b.png")
	root := scene.New("Root", a, b)
	sel, err := Discover(root)
	require.NoError(t, err)
	sel.Set(root, b, false)

	dup, err := New(s, standard, nil).Duplicate(sel, Options{TargetPath: "Out", Suffix: "copy"})
	require.NoError(t, err)
	require.NoError(t, New(s, standard, nil).Relink(dup, Options{TargetPath: "Out", Suffix: "copy"}))
	Rebind(root, dup.Copies, sel)

	_, copied := dup.Copies[b]
	assert.False(t, copied)
	slots := root.Materials()
	assert.Same(t, b, slots[1])
	assert.Equal(t, "M/b.mat", b.Path)
	tex, _ := b.Texture("_MainTex")
	assert.Equal(t, "T/b.png", tex)
	assert.Equal(t, []string{"T/a.png->Out/Textures/a_copy.png"}, s.fileCopies)
}

func TestSharedTextureCopiedOnce(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", map[string]string{"_MainTex": "T/wood.png", "_BumpMap": "T/a_n.png"})
	b := s.addMaterial("M/b.mat", "Standard", map[string]string{"_MainTex": "T/wood.png"})
	s.addTexture("T/wood.png")
	s.addTexture("T/a_n.png")
	root := scene.New("Root", a, b)
	sel, err := Discover(root)
	require.NoError(t, err)

	res, err := New(s, standard, nil).Run(root, sel, Options{CopyTextures: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"T/wood.png->RC_MatCop/Root/Textures/wood_copy.png",
		"T/a_n.png->RC_MatCop/Root/Textures/a_n_copy.png",
	}, s.fileCopies)
	require.Len(t, res.Textures, 2)

	slots := root.Materials()
	ta, _ := slots[0].Texture("_MainTex")
	tb, _ := slots[1].Texture("_MainTex")
	assert.Equal(t, "RC_MatCop/Root/Textures/wood_copy.png", ta)
	assert.Equal(t, ta, tb)
	bump, _ := slots[0].Texture("_BumpMap")
	assert.Equal(t, "RC_MatCop/Root/Textures/a_n_copy.png", bump)

	orig, _ := a.Texture("_MainTex")
	assert.Equal(t, "T/wood.png", orig)
	assert.Equal(t, 1, s.refreshes)
}

func TestSlotOrderPreserved(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", nil)
	b := s.addMaterial("M/b.mat", "Standard", nil)
	c := s.addMaterial("M/c.mat", "Standard", nil)
	root := scene.New("Root")
	n := root.Add(scene.New("N", a, b, a, nil, c))
	sel, err := Discover(root)
	require.NoError(t, err)
	sel.Set(n, b, false)

	res, err := New(s, nil, nil).Run(root, sel, Options{})
	require.NoError(t, err)

	var copies = map[*asset.Material]*asset.Material{}
	for _, mc := range res.Materials {
		copies[mc.Source] = mc.Copy
	}
	require.Len(t, copies, 2)
	assert.Equal(t, []*asset.Material{copies[a], b, copies[a], nil, copies[c]}, n.Materials())
	assert.Equal(t, 3, res.Rebound)
}

func TestTextureCollisionProbing(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", map[string]string{"_MainTex": "T1/wood.png"})
	b := s.addMaterial("M/b.mat", "Standard", map[string]string{"_MainTex": "T2/wood.png"})
	s.addTexture("T1/wood.png")
	s.addTexture("T2/wood.png")
	s.exists["Out/Textures/wood_copy.png"] = true

	root := scene.New("Root", a, b)
	sel, err := Discover(root)
	require.NoError(t, err)

	res, err := New(s, standard, nil).Run(root, sel, Options{TargetPath: "Out", CopyTextures: true})
	require.NoError(t, err)

	require.Len(t, res.Textures, 2)
	first, second := res.Textures[0].Dest, res.Textures[1].Dest
	assert.Equal(t, "Out/Textures/_wood_copy.png", first)
	assert.Equal(t, "Out/Textures/__wood_copy.png", second)
	assert.NotEqual(t, "Out/Textures/wood_copy.png", first)
	assert.NotEqual(t, first, second)
}

func TestMaterialNameCollisionWithinRun(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("A/body.mat", "Standard", nil)
	b := s.addMaterial("B/body.mat", "Standard", nil)
	kept := s.addMaterial("Out/Materials/body_copy.mat", "Standard", nil)
	root := scene.New("Root", a, b)
	sel, err := Discover(root)
	require.NoError(t, err)

	res, err := New(s, nil, nil).Run(root, sel, Options{TargetPath: "Out"})
	require.NoError(t, err)

	require.Len(t, res.Materials, 2)
	assert.Equal(t, "Out/Materials/body_copy.mat", res.Materials[0].Copy.Path, "files from earlier runs are overwritten")
	assert.Equal(t, "Out/Materials/_body_copy.mat", res.Materials[1].Copy.Path)
	assert.NotSame(t, kept, res.Materials[0].Copy)
}

func TestOriginalNeverOverwritten(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("Out/Materials/skin.mat", "Standard", nil)
	prev := s.addMaterial("Out/Materials/skin_copy.mat", "Standard", nil)
	root := scene.New("Root", a, prev)
	sel, err := Discover(root)
	require.NoError(t, err)

	res, err := New(s, nil, nil).Run(root, sel, Options{TargetPath: "Out"})
	require.NoError(t, err)

	var paths []string
	for _, mc := range res.Materials {
		paths = append(paths, mc.Copy.Path)
	}
	assert.Equal(t, []string{"Out/Materials/_skin_copy.mat", "Out/Materials/skin_copy_copy.mat"}, paths)
	assert.Equal(t, "Out/Materials/skin_copy.mat", prev.Path)
}

func TestMissingTexturesSkipped(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", map[string]string{"_MainTex": "T/gone.png", "_BumpMap": ""})
	u := s.addMaterial("M/u.mat", "Custom/Unknown", map[string]string{"_MainTex": "T/here.png"})
	s.addTexture("T/here.png")
	root := scene.New("Root", a, u)
	sel, err := Discover(root)
	require.NoError(t, err)

	res, err := New(s, standard, nil).Run(root, sel, Options{CopyTextures: true})
	require.NoError(t, err)

	assert.Empty(t, res.Textures)
	assert.Empty(t, s.fileCopies)
	assert.Zero(t, s.refreshes)
	tex, _ := root.Materials()[0].Texture("_MainTex")
	assert.Equal(t, "T/gone.png", tex, "copy keeps the original binding")
}

func TestTexturesOffCopiesNoFiles(t *testing.T) {
	s := newFakeStore()
	a := s.addMaterial("M/a.mat", "Standard", map[string]string{"_MainTex": "T/a.png"})
	s.addTexture("T/a.png")
	root := scene.New("Root", a)
	sel, err := Discover(root)
	require.NoError(t, err)

	_, err = New(s, standard, nil).Run(root, sel, Options{})
	require.NoError(t, err)
	assert.Empty(t, s.fileCopies)
	assert.Equal(t, 1, s.flushes)
}

func TestEndToEndPerNodeSelection(t *testing.T) {
	s := newFakeStore()
	matA := s.addMaterial("M/matA.mat", "Standard", nil)
	matB := s.addMaterial("M/matB.mat", "Standard", nil)
	root := scene.New("Root")
	n1 := root.Add(scene.New("N1", matA, matB))
	n2 := root.Add(scene.New("N2", matA))

	sel, err := Discover(root)
	require.NoError(t, err)
	sel.SetAll(false)
	sel.Set(n1, matA, true)

	res, err := New(s, nil, nil).Run(root, sel, Options{Suffix: "v2"})
	require.NoError(t, err)

	require.Len(t, res.Materials, 1)
	copyA := res.Materials[0].Copy
	assert.Same(t, matA, res.Materials[0].Source)
	assert.Equal(t, "matA_v2", copyA.Name())

	assert.Equal(t, []*asset.Material{copyA, matB}, n1.Materials())
	assert.Equal(t, []*asset.Material{matA}, n2.Materials())
	assert.Equal(t, 1, res.Rebound)

	require.Len(t, res.Selection, 2)
	assert.Equal(t, []*asset.Material{copyA, matB}, res.Selection[0].Materials)
	assert.Equal(t, 3, res.Selection.Count(), "rediscovery selects everything again")
}

func TestRebindNilSelectionRemapsEverywhere(t *testing.T) {
	a := &asset.Material{Path: "a.mat"}
	a2 := &asset.Material{Path: "a_copy.mat"}
	root := scene.New("Root", a)
	child := root.Add(scene.New("Child", nil, a))

	n := Rebind(root, CopyMap{a: a2}, nil)
	assert.Equal(t, 2, n)
	assert.Equal(t, []*asset.Material{a2}, root.Materials())
	assert.Equal(t, []*asset.Material{nil, a2}, child.Materials())

	assert.Zero(t, Rebind(nil, CopyMap{a: a2}, nil))
}

func TestUnindexedTextureFormatCopied(t *testing.T) {
	s := newFakeStore()
	s.noIndex[".exr"] = true
	sky := s.addMaterial("M/sky.mat", "Standard", map[string]string{"_MainTex": "T/sky.exr"})
	s.exists["T/sky.exr"] = true
	root := scene.New("Root", sky)
	sel, err := Discover(root)
	require.NoError(t, err)

	res, err := New(s, standard, nil).Run(root, sel, Options{CopyTextures: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"T/sky.exr->RC_MatCop/Root/Textures/sky_copy.exr"}, s.fileCopies)
	require.Len(t, res.Textures, 1)
	tex, _ := root.Materials()[0].Texture("_MainTex")
	assert.Equal(t, "RC_MatCop/Root/Textures/sky_copy.exr", tex)
}

func TestRebindLargeTreePerNodeSelection(t *testing.T) {
	a := &asset.Material{Path: "a.mat"}
	a2 := &asset.Material{Path: "a_copy.mat"}
	root := scene.New("Root")
	var nodes []*scene.Node
	for i := 0; i < 2000; i++ {
		nodes = append(nodes, root.Add(scene.New(fmt.Sprintf("N%d", i), a, a)))
	}
	sel, err := Discover(root)
	require.NoError(t, err)
	for i, n := range nodes {
		if i%2 == 1 {
			sel.SetNode(n, false)
		}
	}

	assert.Equal(t, 2000, Rebind(root, CopyMap{a: a2}, sel))
	assert.Equal(t, []*asset.Material{a2, a2}, nodes[0].Materials())
	assert.Equal(t, []*asset.Material{a, a}, nodes[1].Materials())
	assert.Equal(t, []*asset.Material{a2, a2}, nodes[1998].Materials())
}
