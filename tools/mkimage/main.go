// mkimage builds a bootable disk image for the kernel: a GPT-partitioned
// image with a single EFI system partition holding the kernel binary at the
// removable media default path, so any UEFI firmware will pick it up without
// a boot entry.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	diskfs "github.com/diskfs/go-diskfs"
	diskpkg "github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/dustin/go-humanize"
)

func main() {
	var (
		kernelPath = flag.String("kernel", "kernel.efi", "path to the kernel EFI binary")
		outPath    = flag.String("out", "disk.img", "path of the disk image to create")
		espMB      = flag.Int("esp-mb", 64, "size of the EFI system partition in MiB")
	)
	flag.Parse()

	if err := build(*kernelPath, *outPath, *espMB); err != nil {
		log.Fatal(err)
	}
}

func build(kernelPath, outPath string, espMB int) error {
	kernelInfo, err := os.Stat(kernelPath)
	if err != nil {
		return fmt.Errorf("kernel binary: %w", err)
	}

	espSize := int64(espMB) << 20
	if kernelInfo.Size() >= espSize {
		return fmt.Errorf("kernel (%s) does not fit in a %s partition",
			humanize.IBytes(uint64(kernelInfo.Size())), humanize.IBytes(uint64(espSize)))
	}

	blkSize := diskfs.SectorSize(512)
	diskSize := espSize + 4<<20 // room for the GPT structures and slack
	partitionStart := int64(2048)
	partitionEnd := partitionStart + espSize/int64(blkSize) - 1

	disk, err := diskfs.Create(outPath, diskSize, diskfs.Raw, blkSize)
	if err != nil {
		return err
	}

	table := &gpt.Table{
		Partitions: []*gpt.Partition{
			{
				Start: uint64(partitionStart),
				End:   uint64(partitionEnd),
				Type:  gpt.EFISystemPartition,
				Name:  "EFI System",
			},
		},
	}
	if err := disk.Partition(table); err != nil {
		return err
	}

	fs, err := disk.CreateFilesystem(diskpkg.FilesystemSpec{Partition: 1, FSType: filesystem.TypeFat32})
	if err != nil {
		return err
	}

	if err := fs.Mkdir("/EFI"); err != nil {
		return err
	}
	if err := fs.Mkdir("/EFI/BOOT"); err != nil {
		return err
	}

	dst, err := fs.OpenFile("/EFI/BOOT/BOOTX64.EFI", os.O_CREATE|os.O_RDWR)
	if err != nil {
		return err
	}
	src, err := os.Open(kernelPath)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	_ = src.Close()
	_ = dst.Close()
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s: %s image, %s kernel in a %s EFI system partition\n",
		outPath, humanize.IBytes(uint64(diskSize)),
		humanize.IBytes(uint64(kernelInfo.Size())), humanize.IBytes(uint64(espSize)))
	return nil
}
